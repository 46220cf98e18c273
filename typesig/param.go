package typesig

// ParamKind classifies one parameter a system function declares.
type ParamKind uint8

const (
	// ParamCommand is the zero-size "deferred host mutation" parameter.
	ParamCommand ParamKind = iota
	// ParamRes is a reference (optionally mutable) to a host resource.
	ParamRes
)

// Param is one declared parameter of a System. This is an extend-only
// enumeration per spec §3: new ParamKinds may be added in future wire
// versions, and unrecognized kinds should be carried opaquely rather than
// rejected by old readers. This codec predates any such extension, so for
// now unrecognized kinds are a decode error (see manifest/codec.go).
type Param struct {
	Kind ParamKind
	// Res fields; zero value otherwise.
	Mutable bool
	Id      StableId
}

// CommandParam returns the Command parameter variant.
func CommandParam() Param { return Param{Kind: ParamCommand} }

// ResParam returns the Res parameter variant for the given resource type.
func ResParam(id StableId, mutable bool) Param {
	return Param{Kind: ParamRes, Mutable: mutable, Id: id}
}
