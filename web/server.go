// Package web exposes a read-only HTTP introspection API over a loaded
// metadata graph: object listings, object detail, and the registered
// type catalog. It serves JSON only; rendering belongs to consumers.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/metaobjects-dev/metaobjects/loader"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// Server serves metadata introspection endpoints.
type Server struct {
	loader *loader.Loader
	types  *registry.Registry
	log    *zap.Logger
}

// NewServer creates an introspection server over a loader and its type
// registry. A nil logger defaults to no-op.
func NewServer(l *loader.Loader, types *registry.Registry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{loader: l, types: types, log: log}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/meta", func(r chi.Router) {
		r.Get("/objects", s.handleObjects)
		r.Get("/objects/{name}", s.handleObject)
		r.Get("/types", s.handleTypes)
	})
	return r
}

type objectSummary struct {
	Name    string `json:"name"`
	Package string `json:"package,omitempty"`
	SubType string `json:"subType"`
	Fields  int    `json:"fields"`
}

type fieldDetail struct {
	Name    string            `json:"name"`
	SubType string            `json:"subType"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

type objectDetail struct {
	Name    string        `json:"name"`
	Package string        `json:"package,omitempty"`
	SubType string        `json:"subType"`
	Fields  []fieldDetail `json:"fields"`
}

type typeSummary struct {
	Type        string `json:"type"`
	SubType     string `json:"subType"`
	Description string `json:"description,omitempty"`
	Inherits    string `json:"inherits,omitempty"`
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	objs := s.loader.Objects()
	out := make([]objectSummary, 0, len(objs))
	for _, o := range objs {
		out = append(out, objectSummary{
			Name:    o.ShortName(),
			Package: o.EnclosingPackage(),
			SubType: o.SubType(),
			Fields:  len(o.Fields()),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	obj, err := s.loader.MetaObjectByName(name)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	detail := objectDetail{
		Name:    obj.ShortName(),
		Package: obj.EnclosingPackage(),
		SubType: obj.SubType(),
		Fields:  []fieldDetail{},
	}
	for _, f := range obj.Fields() {
		fd := fieldDetail{Name: f.ShortName(), SubType: f.SubType()}
		for _, a := range f.ChildrenOfType(metadata.TypeAttr, true) {
			if fd.Attrs == nil {
				fd.Attrs = map[string]string{}
			}
			fd.Attrs[a.ShortName()] = metadata.AsAttribute(a).Value()
		}
		detail.Fields = append(detail.Fields, fd)
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	ids := s.types.TypeIDs()
	out := make([]typeSummary, 0, len(ids))
	for _, id := range ids {
		eff, err := s.types.FindType(id.Type, id.SubType)
		if err != nil {
			continue
		}
		t := typeSummary{Type: id.Type, SubType: id.SubType, Description: eff.Description}
		if len(eff.Ancestors) > 0 {
			t.Inherits = eff.Ancestors[0].String()
		}
		out = append(out, t)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}
