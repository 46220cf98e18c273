package manifest

import (
	"bytes"
	"fmt"

	"github.com/harmonize-build/harmonize/schedule"
	"github.com/harmonize-build/harmonize/typesig"
)

// Encode serializes m with the fixed binary codec described in spec §6:
// little-endian, variable-length integers, no schema evolution hooks.
// Fields are written in exactly the order declared in §3.
func Encode(m ModManifest) []byte {
	w := newWriter()
	w.writeBytesFixed(m.WasmHash[:])
	w.writeVarUint(uint64(len(m.Types)))
	for _, t := range m.Types {
		w.writeTypeSignature(t)
	}
	w.writeVarUint(uint64(len(m.Features)))
	for _, f := range m.Features {
		w.writeFeature(f)
	}
	return w.buf.Bytes()
}

// Decode deserializes a ModManifest previously produced by Encode. Decoding
// a short or malformed buffer returns an error; there is no recovery from a
// corrupt manifest.
func Decode(data []byte) (ModManifest, error) {
	r := &reader{b: data}
	var m ModManifest
	hash, err := r.readBytesFixed(WasmHashSize)
	if err != nil {
		return m, fmt.Errorf("manifest: decode wasm_hash: %w", err)
	}
	copy(m.WasmHash[:], hash)

	typeCount, err := r.readVarUint()
	if err != nil {
		return m, fmt.Errorf("manifest: decode type count: %w", err)
	}
	m.Types = make([]typesig.TypeSignature, typeCount)
	for i := range m.Types {
		sig, err := r.readTypeSignature()
		if err != nil {
			return m, fmt.Errorf("manifest: decode type %d: %w", i, err)
		}
		m.Types[i] = sig
	}

	featureCount, err := r.readVarUint()
	if err != nil {
		return m, fmt.Errorf("manifest: decode feature count: %w", err)
	}
	m.Features = make([]FeatureDescriptor, featureCount)
	for i := range m.Features {
		f, err := r.readFeature()
		if err != nil {
			return m, fmt.Errorf("manifest: decode feature %d: %w", i, err)
		}
		m.Features[i] = f
	}
	return m, nil
}

// --- writer ---

type writer struct {
	buf bytes.Buffer
}

func newWriter() *writer { return &writer{} }

// writeVarUint writes v as a LEB128 unsigned variable-length integer: seven
// bits per byte, low-order groups first (little-endian group order), high
// bit set on every byte but the last.
func (w *writer) writeVarUint(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

func (w *writer) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *writer) writeBytesFixed(b []byte) { w.buf.Write(b) }

func (w *writer) writeBytes(b []byte) {
	w.writeVarUint(uint64(len(b)))
	w.buf.Write(b)
}

func (w *writer) writeString(s string) { w.writeBytes([]byte(s)) }

func (w *writer) writeOptionalUint32(v *uint32) {
	if v == nil {
		w.writeBool(false)
		return
	}
	w.writeBool(true)
	w.writeVarUint(uint64(*v))
}

func (w *writer) writeStableId(id typesig.StableId) {
	w.writeString(id.CrateName)
	w.writeString(id.Name)
}

func (w *writer) writeStableIds(ids []typesig.StableId) {
	w.writeVarUint(uint64(len(ids)))
	for _, id := range ids {
		w.writeStableId(id)
	}
}

func (w *writer) writeFieldSignatures(fields []typesig.FieldSignature) {
	w.writeVarUint(uint64(len(fields)))
	for _, f := range fields {
		w.writeString(f.Name)
		w.writeStableId(f.Type)
	}
}

func (w *writer) writeVariantSignatures(variants []typesig.VariantSignature) {
	w.writeVarUint(uint64(len(variants)))
	for _, v := range variants {
		w.writeString(v.Name)
		w.buf.WriteByte(byte(v.Kind))
		switch v.Kind {
		case typesig.VariantStruct:
			w.writeFieldSignatures(v.Fields)
		case typesig.VariantTuple:
			w.writeStableIds(v.Tuple)
		}
	}
}

func (w *writer) writeTypeSignature(t typesig.TypeSignature) {
	w.buf.WriteByte(byte(t.Kind))
	w.writeStableId(t.Id)
	w.writeOptionalUint32(t.Size)
	w.writeOptionalUint32(t.Align)
	w.writeStableIds(t.Generics)

	switch t.Kind {
	case typesig.KindStruct, typesig.KindTupleStruct:
		w.writeFieldSignatures(t.Fields)
	case typesig.KindTuple, typesig.KindList, typesig.KindSet:
		w.writeStableIds(t.Elements)
	case typesig.KindArray:
		w.writeStableIds(t.Elements)
		w.writeOptionalUint32(t.Len)
	case typesig.KindMap:
		w.writeStableId(*t.KeyType)
		w.writeStableId(*t.ValueType)
	case typesig.KindEnum:
		w.writeVariantSignatures(t.Variants)
	case typesig.KindOpaque:
		// nothing beyond the common header
	}
}

func (w *writer) writeParam(p typesig.Param) {
	w.buf.WriteByte(byte(p.Kind))
	if p.Kind == typesig.ParamRes {
		w.writeBool(p.Mutable)
		w.writeStableId(p.Id)
	}
}

func (w *writer) writeSystem(s schedule.System) {
	w.writeVarUint(uint64(s.Id))
	w.writeString(s.Name)
	w.writeVarUint(uint64(len(s.Params)))
	for _, p := range s.Params {
		w.writeParam(p)
	}
}

func (w *writer) writeSystemIds(ids []typesig.SystemId) {
	w.writeVarUint(uint64(len(ids)))
	for _, id := range ids {
		w.writeVarUint(uint64(id))
	}
}

func (w *writer) writeSystemSet(s schedule.SystemSet) {
	w.buf.WriteByte(byte(s.Kind))
	switch s.Kind {
	case schedule.SetAnonymous:
		w.writeSystemIds(s.Members)
	case schedule.SetNamed:
		w.writeStableId(s.Name)
	}
}

func (w *writer) writeConstraint(c schedule.Constraint) {
	w.buf.WriteByte(byte(c.Kind))
	switch c.Kind {
	case schedule.ConstraintOrder:
		w.writeSystemSet(c.Before)
		w.writeSystemSet(c.After)
	case schedule.ConstraintCondition:
		w.writeSystemSet(c.Set)
		w.writeVarUint(uint64(c.Condition))
	case schedule.ConstraintIncludes:
		w.writeStableId(c.ParentName)
		w.writeSystemSet(c.Set)
	}
}

func (w *writer) writeSchedule(s schedule.Schedule) {
	w.writeVarUint(uint64(len(s.Systems)))
	for _, sys := range s.Systems {
		w.writeSystem(sys)
	}
	w.writeVarUint(uint64(len(s.Constraints)))
	for _, c := range s.Constraints {
		w.writeConstraint(c)
	}
}

func (w *writer) writeScheduleDescriptor(d schedule.Descriptor) {
	w.writeStableId(d.Id)
	w.writeString(string(d.Label))
	w.writeSchedule(d.Schedule)
}

func (w *writer) writeResourceDefault(r ResourceDefault) {
	w.writeStableId(r.Type)
	w.writeBytes(r.Default)
}

func (w *writer) writeFeature(f FeatureDescriptor) {
	w.writeString(f.Name)
	w.writeVarUint(uint64(len(f.Resources)))
	for _, r := range f.Resources {
		w.writeResourceDefault(r)
	}
	w.writeVarUint(uint64(len(f.Schedules)))
	for _, d := range f.Schedules {
		w.writeScheduleDescriptor(d)
	}
}

// --- reader ---

type reader struct {
	b   []byte
	pos int
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.b) {
		return 0, fmt.Errorf("manifest: unexpected end of buffer")
	}
	b := r.b[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readBytesFixed(n int) ([]byte, error) {
	if r.pos+n > len(r.b) {
		return nil, fmt.Errorf("manifest: unexpected end of buffer")
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) readVarUint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, fmt.Errorf("manifest: varint overflow")
		}
	}
}

func (r *reader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *reader) readBytes() ([]byte, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	return r.readBytesFixed(int(n))
}

func (r *reader) readString() (string, error) {
	b, err := r.readBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) readOptionalUint32() (*uint32, error) {
	present, err := r.readBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	u := uint32(v)
	return &u, nil
}

func (r *reader) readStableId() (typesig.StableId, error) {
	crate, err := r.readString()
	if err != nil {
		return typesig.StableId{}, err
	}
	name, err := r.readString()
	if err != nil {
		return typesig.StableId{}, err
	}
	return typesig.NewStableId(crate, name), nil
}

func (r *reader) readStableIds() ([]typesig.StableId, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	out := make([]typesig.StableId, n)
	for i := range out {
		id, err := r.readStableId()
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func (r *reader) readFieldSignatures() ([]typesig.FieldSignature, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	out := make([]typesig.FieldSignature, n)
	for i := range out {
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		ty, err := r.readStableId()
		if err != nil {
			return nil, err
		}
		out[i] = typesig.FieldSignature{Name: name, Type: ty}
	}
	return out, nil
}

func (r *reader) readVariantSignatures() ([]typesig.VariantSignature, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	out := make([]typesig.VariantSignature, n)
	for i := range out {
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		kindByte, err := r.readByte()
		if err != nil {
			return nil, err
		}
		v := typesig.VariantSignature{Name: name, Kind: typesig.VariantKind(kindByte)}
		switch v.Kind {
		case typesig.VariantStruct:
			v.Fields, err = r.readFieldSignatures()
		case typesig.VariantTuple:
			v.Tuple, err = r.readStableIds()
		}
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *reader) readTypeSignature() (typesig.TypeSignature, error) {
	var t typesig.TypeSignature
	kindByte, err := r.readByte()
	if err != nil {
		return t, err
	}
	t.Kind = typesig.Kind(kindByte)

	if t.Id, err = r.readStableId(); err != nil {
		return t, err
	}
	if t.Size, err = r.readOptionalUint32(); err != nil {
		return t, err
	}
	if t.Align, err = r.readOptionalUint32(); err != nil {
		return t, err
	}
	if t.Generics, err = r.readStableIds(); err != nil {
		return t, err
	}

	switch t.Kind {
	case typesig.KindStruct, typesig.KindTupleStruct:
		t.Fields, err = r.readFieldSignatures()
	case typesig.KindTuple, typesig.KindList, typesig.KindSet:
		t.Elements, err = r.readStableIds()
	case typesig.KindArray:
		if t.Elements, err = r.readStableIds(); err != nil {
			return t, err
		}
		t.Len, err = r.readOptionalUint32()
	case typesig.KindMap:
		var key, value typesig.StableId
		if key, err = r.readStableId(); err != nil {
			return t, err
		}
		if value, err = r.readStableId(); err != nil {
			return t, err
		}
		t.KeyType, t.ValueType = &key, &value
	case typesig.KindEnum:
		t.Variants, err = r.readVariantSignatures()
	case typesig.KindOpaque:
		// nothing beyond the common header
	default:
		return t, fmt.Errorf("manifest: unknown type signature kind %d", kindByte)
	}
	return t, err
}

func (r *reader) readParam() (typesig.Param, error) {
	kindByte, err := r.readByte()
	if err != nil {
		return typesig.Param{}, err
	}
	p := typesig.Param{Kind: typesig.ParamKind(kindByte)}
	switch p.Kind {
	case typesig.ParamCommand:
	case typesig.ParamRes:
		if p.Mutable, err = r.readBool(); err != nil {
			return p, err
		}
		if p.Id, err = r.readStableId(); err != nil {
			return p, err
		}
	default:
		return p, fmt.Errorf("manifest: unknown param kind %d", kindByte)
	}
	return p, nil
}

func (r *reader) readSystem() (schedule.System, error) {
	var s schedule.System
	id, err := r.readVarUint()
	if err != nil {
		return s, err
	}
	s.Id = typesig.SystemId(id)
	if s.Name, err = r.readString(); err != nil {
		return s, err
	}
	n, err := r.readVarUint()
	if err != nil {
		return s, err
	}
	s.Params = make([]typesig.Param, n)
	for i := range s.Params {
		if s.Params[i], err = r.readParam(); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (r *reader) readSystemIds() ([]typesig.SystemId, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	out := make([]typesig.SystemId, n)
	for i := range out {
		v, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		out[i] = typesig.SystemId(v)
	}
	return out, nil
}

func (r *reader) readSystemSet() (schedule.SystemSet, error) {
	kindByte, err := r.readByte()
	if err != nil {
		return schedule.SystemSet{}, err
	}
	s := schedule.SystemSet{Kind: schedule.SetKind(kindByte)}
	switch s.Kind {
	case schedule.SetAnonymous:
		s.Members, err = r.readSystemIds()
	case schedule.SetNamed:
		s.Name, err = r.readStableId()
	default:
		return s, fmt.Errorf("manifest: unknown system set kind %d", kindByte)
	}
	return s, err
}

func (r *reader) readConstraint() (schedule.Constraint, error) {
	kindByte, err := r.readByte()
	if err != nil {
		return schedule.Constraint{}, err
	}
	c := schedule.Constraint{Kind: schedule.ConstraintKind(kindByte)}
	switch c.Kind {
	case schedule.ConstraintOrder:
		if c.Before, err = r.readSystemSet(); err != nil {
			return c, err
		}
		c.After, err = r.readSystemSet()
	case schedule.ConstraintCondition:
		if c.Set, err = r.readSystemSet(); err != nil {
			return c, err
		}
		v, e := r.readVarUint()
		err = e
		c.Condition = typesig.SystemId(v)
	case schedule.ConstraintIncludes:
		if c.ParentName, err = r.readStableId(); err != nil {
			return c, err
		}
		c.Set, err = r.readSystemSet()
	default:
		return c, fmt.Errorf("manifest: unknown constraint kind %d", kindByte)
	}
	return c, err
}

func (r *reader) readSchedule() (schedule.Schedule, error) {
	var s schedule.Schedule
	n, err := r.readVarUint()
	if err != nil {
		return s, err
	}
	s.Systems = make([]schedule.System, n)
	for i := range s.Systems {
		if s.Systems[i], err = r.readSystem(); err != nil {
			return s, err
		}
	}
	n, err = r.readVarUint()
	if err != nil {
		return s, err
	}
	s.Constraints = make([]schedule.Constraint, n)
	for i := range s.Constraints {
		if s.Constraints[i], err = r.readConstraint(); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (r *reader) readScheduleDescriptor() (schedule.Descriptor, error) {
	var d schedule.Descriptor
	id, err := r.readStableId()
	if err != nil {
		return d, err
	}
	label, err := r.readString()
	if err != nil {
		return d, err
	}
	sched, err := r.readSchedule()
	if err != nil {
		return d, err
	}
	d.Id = id
	d.Label = schedule.Label(label)
	d.Schedule = sched
	return d, nil
}

func (r *reader) readResourceDefault() (ResourceDefault, error) {
	var res ResourceDefault
	id, err := r.readStableId()
	if err != nil {
		return res, err
	}
	def, err := r.readBytes()
	if err != nil {
		return res, err
	}
	res.Type, res.Default = id, def
	return res, nil
}

func (r *reader) readFeature() (FeatureDescriptor, error) {
	var f FeatureDescriptor
	name, err := r.readString()
	if err != nil {
		return f, err
	}
	f.Name = name

	n, err := r.readVarUint()
	if err != nil {
		return f, err
	}
	f.Resources = make([]ResourceDefault, n)
	for i := range f.Resources {
		if f.Resources[i], err = r.readResourceDefault(); err != nil {
			return f, err
		}
	}

	n, err = r.readVarUint()
	if err != nil {
		return f, err
	}
	f.Schedules = make([]schedule.Descriptor, n)
	for i := range f.Schedules {
		if f.Schedules[i], err = r.readScheduleDescriptor(); err != nil {
			return f, err
		}
	}
	return f, nil
}
