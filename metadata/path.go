package metadata

import (
	"fmt"
	"strings"
)

// PkgSeparator separates package segments and the final short name in a
// qualified metadata name, e.g. "acme::common::User".
const PkgSeparator = "::"

// relativePrefix drops one enclosing package level per occurrence.
const relativePrefix = ".." + PkgSeparator

// SplitName splits a qualified name into its package and short name.
// A name with no separator has an empty package.
func SplitName(qualified string) (pkg, short string) {
	i := strings.LastIndex(qualified, PkgSeparator)
	if i < 0 {
		return "", qualified
	}
	return qualified[:i], qualified[i+len(PkgSeparator):]
}

// JoinName joins a package and short name into a qualified name.
func JoinName(pkg, short string) string {
	if pkg == "" {
		return short
	}
	return pkg + PkgSeparator + short
}

// ExpandPackage expands a possibly-relative reference against a base
// package:
//
//   - "a::b::Foo"  -> unchanged (already qualified)
//   - "::Foo"      -> base + "::Foo"
//   - "..::Foo"    -> base minus one trailing segment, then "::Foo"
//
// Each leading "..::" strips one more enclosing level. Stripping past the
// root of the base package is an error.
func ExpandPackage(basePkg, ref string) (string, error) {
	orig := ref

	switch {
	case strings.HasPrefix(ref, relativePrefix):
		segs := []string{}
		if basePkg != "" {
			segs = strings.Split(basePkg, PkgSeparator)
		}
		i := len(segs)
		for strings.HasPrefix(ref, relativePrefix) {
			ref = ref[len(relativePrefix):]
			i--
			if i < 0 {
				return "", fmt.Errorf("base package %q cannot drop that many relative paths for %q", basePkg, orig)
			}
		}
		for x := i - 1; x >= 0; x-- {
			ref = segs[x] + PkgSeparator + ref
		}
		return ref, nil

	case strings.HasPrefix(ref, PkgSeparator):
		return basePkg + ref, nil

	default:
		return ref, nil
	}
}
