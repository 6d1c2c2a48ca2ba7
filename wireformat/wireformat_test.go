package wireformat

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mexbridge/mexbridge/domain/entities"
	domainerrors "github.com/mexbridge/mexbridge/domain/errors"
)

func TestNewCallWire(t *testing.T) {
	w := NewCallWire(entities.CallRequest{
		Kind:            entities.KindKeyword,
		Target:          entities.KeywordCallEntry,
		PositionalCount: 1,
		Arguments:       []any{"f", int32(1), "a", "k", 2},
		Outputs:         1,
	})

	data, err := Encode(w, "CallWire")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"kind":"keyword-call","target":"MexInterop.kwcall","args":["f",1,"a","k",2],"npos":1,"nout":1}`,
		string(data))
}

func TestNewCallWire_NoArguments(t *testing.T) {
	data, err := Encode(NewCallWire(entities.CallRequest{Kind: entities.KindMex, Target: "rand"}), "CallWire")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"args":[]`)
}

func TestNewBootstrapWire(t *testing.T) {
	w := NewBootstrapWire(entities.RuntimeConfig{RuntimeHome: "/rt", LibPath: "/rt/lib.wasm"}, "/opt/host")

	data, err := Encode(w, "BootstrapWire")
	require.NoError(t, err)
	assert.JSONEq(t, `{"runtime_home":"/rt","lib_path":"/rt/lib.wasm","host_root":"/opt/host"}`, string(data))
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode(CallWire{Args: []any{make(chan int)}}, "CallWire")

	var wfErr *domainerrors.WireFormatError
	require.True(t, errors.As(err, &wfErr))
	assert.Equal(t, "encode", wfErr.Operation)
}

func TestDecodeTuple(t *testing.T) {
	values, err := DecodeTuple([]byte(`{"values":[true,2,2.5,"s",null,[1]]}`))
	require.NoError(t, err)

	require.Len(t, values, 6)
	assert.Equal(t, true, values[0])
	assert.Equal(t, int64(2), values[1])
	assert.Equal(t, 2.5, values[2])
	assert.Equal(t, "s", values[3])
	assert.Nil(t, values[4])
	assert.Equal(t, []any{json.Number("1")}, values[5])
}

func TestDecodeTuple_Failure(t *testing.T) {
	values, err := DecodeTuple([]byte(`{"values":[{"type":"DomainError","message":"sqrt(-1)"}]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "DomainError", "message": "sqrt(-1)"}, values[0])

	_, err = DecodeTuple([]byte(`garbage`))
	var wfErr *domainerrors.WireFormatError
	require.True(t, errors.As(err, &wfErr))
	assert.Equal(t, "TupleWire", wfErr.Type)
}

func TestDecodeStatus(t *testing.T) {
	s, err := DecodeStatus([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, s.Error)

	s, err = DecodeStatus([]byte(`{"error":{"type":"LoadError","message":"no such package"}}`))
	require.NoError(t, err)
	require.NotNil(t, s.Error)
	assert.Equal(t, "LoadError: no such package", s.Error.Error())
	assert.Equal(t, "bare", (&ErrorWire{Message: "bare"}).Error())
}
