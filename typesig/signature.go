package typesig

// Kind classifies the shape of a reflected type.
type Kind uint8

const (
	KindStruct Kind = iota
	KindTupleStruct
	KindTuple
	KindList
	KindArray
	KindMap
	KindSet
	KindEnum
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindTupleStruct:
		return "tuple_struct"
	case KindTuple:
		return "tuple"
	case KindList:
		return "list"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	case KindEnum:
		return "enum"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// hasLayout reports whether this Kind's instances may carry a fixed
// size/align, per spec §3: the struct family, enum, and opaque may; the
// container kinds (list/array/map/set) never do, and tuple never does either
// since its layout is determined entirely by its element types.
func (k Kind) hasLayout() bool {
	switch k {
	case KindStruct, KindTupleStruct, KindEnum, KindOpaque:
		return true
	default:
		return false
	}
}

// FieldSignature is one named field of a struct-shaped type.
type FieldSignature struct {
	Name string
	Type StableId
}

// VariantKind classifies one variant of an Enum TypeSignature.
type VariantKind uint8

const (
	VariantUnit VariantKind = iota
	VariantTuple
	VariantStruct
)

// VariantSignature is one variant of an Enum TypeSignature.
type VariantSignature struct {
	Name   string
	Kind   VariantKind
	Fields []FieldSignature // populated for VariantStruct
	Tuple  []StableId        // populated for VariantTuple
}

// TypeSignature is a serialization-friendly description of a reflected type.
// Only the fields relevant to its Kind are meaningful; the comments on the
// fields below name the Kinds that use them.
//
// Size and Align are nil unless this occurrence of the type carries known,
// fixed layout. Per spec §3: for kinds with fixed layout (struct family,
// enum, opaque), if both are present then Align is a power of two no greater
// than 128, Size is positive, Align is positive, and Size is a multiple of
// Align. Container kinds never carry Size/Align.
type TypeSignature struct {
	Kind     Kind
	Id       StableId
	Size     *uint32
	Align    *uint32
	Generics []StableId

	// Struct / TupleStruct
	Fields []FieldSignature
	// Tuple / List / Array / Set: element type(s). Array additionally uses Len.
	Elements []StableId
	Len      *uint32 // Array length, nil otherwise
	// Map
	KeyType   *StableId
	ValueType *StableId
	// Enum
	Variants []VariantSignature
}

// HasLayout reports whether both Size and Align are known for this
// signature.
func (t TypeSignature) HasLayout() bool {
	return t.Size != nil && t.Align != nil
}

// ValidLayout reports whether a known Size/Align pair satisfies spec §3's
// invariant for kinds that carry layout: align a power of two in [1, 128],
// size and align both positive, and size a multiple of align. Types without
// a known layout, and container kinds which never carry one, are considered
// valid (there is nothing to violate).
func (t TypeSignature) ValidLayout() bool {
	if !t.Kind.hasLayout() || !t.HasLayout() {
		return true
	}
	size, align := *t.Size, *t.Align
	if size == 0 || align == 0 || align > 128 {
		return false
	}
	if align&(align-1) != 0 {
		return false // not a power of two
	}
	return size%align == 0
}
