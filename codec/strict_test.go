package codec

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	idjson "github.com/reoring/idjson"
)

type strictDoc struct {
	OrderId int64
	ID      int64
	Id      int64 `json:"id"`
	Count   int64
	Name    string
}

type accountID int64

type namedDoc struct {
	AccountId accountID
}

func TestStrictInt64_RoundTrip(t *testing.T) {
	s := NewSerializer()
	for _, v := range []int64{0, 1, -1, 143563463467, math.MaxInt64, math.MinInt64} {
		in := strictDoc{OrderId: v, ID: v, Id: v, Count: v, Name: "n"}
		b, err := s.Marshal(in)
		require.NoError(t, err)

		q := strconv.Quote(strconv.FormatInt(v, 10))
		require.Contains(t, string(b), `"OrderId":`+q)
		require.Contains(t, string(b), `"ID":`+q)
		require.Contains(t, string(b), `"id":`+q)
		require.Contains(t, string(b), `"Count":`+strconv.FormatInt(v, 10))

		var out strictDoc
		require.NoError(t, s.Unmarshal(b, &out))
		require.Equal(t, in, out)
	}
}

func TestStrictInt64_AcceptsNumbers(t *testing.T) {
	var out strictDoc
	require.NoError(t, NewSerializer().Unmarshal([]byte(`{"OrderId":42,"Count":7}`), &out))
	require.EqualValues(t, 42, out.OrderId)
	require.EqualValues(t, 7, out.Count)
}

func TestStrictInt64_MalformedIdentifier(t *testing.T) {
	var out strictDoc
	err := NewSerializer().Unmarshal([]byte(`{"OrderId":"abc"}`), &out)
	require.Error(t, err)

	var se *idjson.SerializationError
	require.True(t, errors.As(err, &se), "got %T: %v", err, err)
	require.Equal(t, idjson.CodeInvalidFormat, se.Code)
	require.Equal(t, "abc", se.Value)
	require.Equal(t, idjson.FieldPath("OrderId"), se.Path)
	require.Contains(t, se.Error(), "abc")
}

func TestStrictInt64_OutOfRangeIdentifier(t *testing.T) {
	var out strictDoc
	err := NewSerializer().Unmarshal([]byte(`{"OrderId":"9223372036854775808"}`), &out)
	var se *idjson.SerializationError
	require.ErrorAs(t, err, &se)
	require.Equal(t, idjson.CodeInvalidFormat, se.Code)
}

func TestStrictInt64_NonIdentifierStringDefers(t *testing.T) {
	var out strictDoc
	err := NewSerializer().Unmarshal([]byte(`{"Count":"12"}`), &out)
	var se *idjson.SerializationError
	require.ErrorAs(t, err, &se)
	require.Equal(t, idjson.CodeInvalidType, se.Code)
	require.Equal(t, idjson.FieldPath("Count"), se.Path)
}

func TestStrictInt64_NamedKind(t *testing.T) {
	s := NewSerializer()
	b, err := s.Marshal(namedDoc{AccountId: 77})
	require.NoError(t, err)
	require.JSONEq(t, `{"AccountId":"77"}`, string(b))

	var out namedDoc
	require.NoError(t, s.Unmarshal(b, &out))
	require.Equal(t, accountID(77), out.AccountId)
}

func TestStrictInt64_WriteTypeMismatchPanics(t *testing.T) {
	w := idjson.NewWriter()
	require.Panics(t, func() {
		_ = StrictInt64{}.WriteJSON(w, "OrderId", reflectValue("nope"), nil)
	})
}
