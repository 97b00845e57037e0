package codec_test

import (
	"fmt"

	"github.com/reoring/idjson/codec"
)

func ExampleNewSerializer() {
	type child struct {
		ChildId     int64
		Description string
	}
	type parent struct {
		ParentId *int64
		Name     string
		Child    child
	}

	id := int64(143563463467)
	s := codec.NewSerializer()
	b, _ := s.Marshal(parent{ParentId: &id, Name: "Name", Child: child{ChildId: 423534645674, Description: "Desc"}})
	fmt.Println(string(b))

	var in parent
	err := s.Unmarshal([]byte(`{"ParentId":"abc","Child":{"ChildId":"7"}}`), &in)
	fmt.Println(in.ParentId == nil, in.Child.ChildId, err)

	err = s.Unmarshal([]byte(`{"Child":{"ChildId":"abc"}}`), &in)
	fmt.Println(err)
	// Output:
	// {"ParentId":"143563463467","Name":"Name","Child":{"ChildId":"423534645674","Description":"Desc"}}
	// true 7 <nil>
	// idjson: invalid string value for int64: "abc" (invalid_format at Child.ChildId)
}

func ExampleIsIdentifierField() {
	for _, p := range []string{"Child.ChildId", "ID", "Name", "Android", "Items[0]"} {
		fmt.Println(p, codec.IsIdentifierField(p))
	}
	// Output:
	// Child.ChildId true
	// ID true
	// Name false
	// Android true
	// Items[0] false
}
