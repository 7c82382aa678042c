package cellml

import "github.com/beevik/etree"

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// DefaultNamespaceRewrites upgrades CellML 1.0 sub-trees to CellML 1.1.
var DefaultNamespaceRewrites = map[string]string{
	Namespace10: Namespace11,
}

// LookupNamespace resolves prefix ("" for the default namespace) from the
// declarations on e and its ancestors. Unbound prefixes resolve to "".
func LookupNamespace(e *etree.Element, prefix string) string {
	if prefix == "xml" {
		return xmlNamespace
	}
	for cur := e; cur != nil; cur = cur.Parent() {
		for _, a := range cur.Attr {
			if isNamespaceDecl(a) && declaredPrefix(a) == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// NamespaceOf returns the namespace URI of e's tag.
func NamespaceOf(e *etree.Element) string {
	return LookupNamespace(e, e.Space)
}

// IsCellMLNamespace reports whether uri is a CellML schema namespace.
func IsCellMLNamespace(uri string) bool {
	return uri == Namespace10 || uri == Namespace11
}

// CopyElement deep-copies src for use in another document. Prefixes used in
// the copy but declared on src's ancestors are re-declared on the copy root,
// and every namespace declaration found in rewrites is replaced.
func CopyElement(src *etree.Element, rewrites map[string]string) *etree.Element {
	cp := src.Copy()

	missing := make(map[string]struct{})
	var walk func(e *etree.Element, scope map[string]struct{})
	walk = func(e *etree.Element, scope map[string]struct{}) {
		local := scope
		copied := false
		for _, a := range e.Attr {
			if isNamespaceDecl(a) {
				if !copied {
					copied = true
					local = make(map[string]struct{}, len(scope)+1)
					for k := range scope {
						local[k] = struct{}{}
					}
				}
				local[declaredPrefix(a)] = struct{}{}
			}
		}
		use := func(prefix string) {
			if prefix == "xml" || prefix == "xmlns" {
				return
			}
			if _, ok := local[prefix]; !ok {
				missing[prefix] = struct{}{}
			}
		}
		if e.Space != "" {
			use(e.Space)
		}
		for _, a := range e.Attr {
			if a.Space != "" && !isNamespaceDecl(a) {
				use(a.Space)
			}
		}
		for _, child := range e.ChildElements() {
			walk(child, local)
		}
	}
	walk(cp, map[string]struct{}{})

	for prefix := range missing {
		if uri := LookupNamespace(src, prefix); uri != "" {
			cp.CreateAttr("xmlns:"+prefix, uri)
		}
	}
	if cp.Space == "" && cp.SelectAttr("xmlns") == nil {
		if uri := LookupNamespace(src, ""); uri != "" && !IsCellMLNamespace(uri) {
			cp.CreateAttr("xmlns", uri)
		}
	}

	rewriteNamespaces(cp, rewrites)
	return cp
}

func rewriteNamespaces(e *etree.Element, rewrites map[string]string) {
	for i, a := range e.Attr {
		if !isNamespaceDecl(a) {
			continue
		}
		if to, ok := rewrites[a.Value]; ok {
			e.Attr[i].Value = to
		}
	}
	for _, child := range e.ChildElements() {
		rewriteNamespaces(child, rewrites)
	}
}

func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

func declaredPrefix(a etree.Attr) string {
	if a.Space == "xmlns" {
		return a.Key
	}
	return ""
}
