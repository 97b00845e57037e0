package idjson

import (
	"encoding"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// typeCodec is the cached encode/decode plan for one static type.
type typeCodec struct {
	enc EncodeFunc
	dec decodeFn
}

type decodeFn func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error

var (
	marshalerType       = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	unmarshalerType     = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// codecFor returns the plan for t, building it on first use. Recursive types
// get an indirect plan that waits for the real one to be built.
func (s *Serializer) codecFor(t reflect.Type) *typeCodec {
	if c, ok := s.codecs.Load(t); ok {
		return c.(*typeCodec)
	}
	var (
		wg   sync.WaitGroup
		real *typeCodec
	)
	wg.Add(1)
	indirect := &typeCodec{
		enc: func(w *Writer, path FieldPath, v reflect.Value) error {
			wg.Wait()
			return real.enc(w, path, v)
		},
		dec: func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			wg.Wait()
			return real.dec(d, tok, path, dst)
		},
	}
	if c, loaded := s.codecs.LoadOrStore(t, indirect); loaded {
		return c.(*typeCodec)
	}
	real = s.newCodec(t)
	wg.Done()
	s.codecs.Store(t, real)
	return real
}

func (s *Serializer) newCodec(t reflect.Type) *typeCodec {
	// Struct members are planned on first use so recursive types never
	// re-enter their own plan while it is being built.
	plan := sync.OnceValue(func() *structPlan { return s.planStruct(t) })
	base := &typeCodec{enc: s.defaultEncoder(t, plan), dec: s.defaultDecoder(t, plan)}
	for _, c := range s.converters {
		if c.CanConvert(t) {
			return withConverter(c, base)
		}
	}
	return base
}

func withConverter(c Converter, base *typeCodec) *typeCodec {
	return &typeCodec{
		enc: func(w *Writer, path FieldPath, v reflect.Value) error {
			return c.WriteJSON(w, path, v, base.enc)
		},
		dec: func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			p, err := c.ReadJSON(tok, path, dst, d.bind(base.dec))
			if p&PresenceMalformed != 0 {
				d.malformed(path, tok)
			}
			d.pm.mark(path, p)
			return err
		},
	}
}

// fieldPlan describes one encoded struct member.
type fieldPlan struct {
	name      string
	index     []int
	typ       reflect.Type
	omitEmpty bool
	codec     *typeCodec
}

type structPlan struct {
	fields []fieldPlan
	byName map[string]int // exact wire name
	byFold map[string]int // lower-cased wire name
}

func (s *Serializer) planStruct(t reflect.Type) *structPlan {
	type pending struct {
		t     reflect.Type
		index []int
	}
	var fields []fieldPlan
	seen := map[string]bool{}
	// Breadth-first so shallower fields shadow promoted ones.
	queue := []pending{{t: t}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := 0; i < cur.t.NumField(); i++ {
			sf := cur.t.Field(i)
			index := append(append([]int(nil), cur.index...), i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("json") == "" {
				queue = append(queue, pending{t: sf.Type, index: index})
				continue
			}
			if !sf.IsExported() {
				continue
			}
			name := ResolveStructKey(sf)
			if name == "-" || seen[name] {
				continue
			}
			seen[name] = true
			fields = append(fields, fieldPlan{name: name, index: index, typ: sf.Type, omitEmpty: hasOmitEmpty(sf)})
		}
	}
	sort.Slice(fields, func(i, j int) bool { return lessIndex(fields[i].index, fields[j].index) })

	sp := &structPlan{fields: fields, byName: make(map[string]int, len(fields)), byFold: make(map[string]int, len(fields))}
	for i := range sp.fields {
		f := &sp.fields[i]
		f.codec = s.codecFor(f.typ)
		sp.byName[f.name] = i
		if _, ok := sp.byFold[strings.ToLower(f.name)]; !ok {
			sp.byFold[strings.ToLower(f.name)] = i
		}
	}
	return sp
}

// lookup finds the field for a wire key: exact match first, then
// case-insensitive.
func (sp *structPlan) lookup(key string) (*fieldPlan, bool) {
	if i, ok := sp.byName[key]; ok {
		return &sp.fields[i], true
	}
	if i, ok := sp.byFold[strings.ToLower(key)]; ok {
		return &sp.fields[i], true
	}
	return nil, false
}

func lessIndex(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
