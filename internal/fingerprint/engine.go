package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/RetroMaximus/crudehelpgen/internal/pydoc"
)

// Record maps qualified declaration keys to fingerprint hashes.
type Record map[string]string

// Fingerprint computes a stable content hash for a declaration. It is a pure
// function of the declaration's canonical content: the same content hashes
// identically across runs and processes.
//
// Classes hash their name, docstring, base dumps, decorator dumps, and the
// name, full signature, and docstring of each direct function member in
// source order. Nested classes do not contribute their members to the parent
// hash. Functions hash their name, docstring, decorator dumps, and full
// signature. Anything else hashes its structural dump.
func Fingerprint(decl *pydoc.Declaration) string {
	var b strings.Builder

	switch decl.Kind {
	case pydoc.DeclClass:
		b.WriteString("class:")
		b.WriteString(decl.Name)
		b.WriteString(":")
		b.WriteString(decl.Doc)
		b.WriteString(":bases:")
		b.WriteString(strings.Join(decl.Bases, ","))
		b.WriteString(":decorators:")
		b.WriteString(strings.Join(decl.Decorators, ","))
		for _, m := range decl.Functions() {
			b.WriteString("|")
			b.WriteString(m.Name)
			b.WriteString(":")
			b.WriteString(FullSignature(m.Params))
			b.WriteString(":")
			b.WriteString(m.Doc)
		}

	case pydoc.DeclFunction:
		b.WriteString("function:")
		b.WriteString(decl.Name)
		b.WriteString(":")
		b.WriteString(decl.Doc)
		b.WriteString(":decorators:")
		b.WriteString(strings.Join(decl.Decorators, ","))
		b.WriteString(":signature:")
		b.WriteString(FullSignature(decl.Params))

	default:
		b.WriteString(decl.Raw)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Key returns the qualified key for a top-level declaration. Classes are
// prefixed so a function and a class sharing a name never collide.
func Key(decl *pydoc.Declaration) string {
	if decl.Kind == pydoc.DeclClass {
		return "class_" + decl.Name
	}
	return decl.Name
}

// MemberKey returns the qualified key for a class member, scoped by the
// enclosing class name so same-named methods of different classes stay
// distinct.
func MemberKey(class, member *pydoc.Declaration) string {
	return class.Name + "." + member.Name
}

// BuildRecord fingerprints every top-level declaration and every direct
// function member of every top-level class. Exclusion never applies here:
// excluded declarations still contribute fingerprints, they are only hidden
// from rendering.
func BuildRecord(decls []*pydoc.Declaration) Record {
	record := make(Record)
	for _, decl := range decls {
		record[Key(decl)] = Fingerprint(decl)
		if decl.Kind != pydoc.DeclClass {
			continue
		}
		for _, member := range decl.Functions() {
			record[MemberKey(decl, member)] = Fingerprint(member)
		}
	}
	return record
}
