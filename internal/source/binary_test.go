package source_test

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"testing"

	"github.com/mvijayanand/tracing-framework/internal/errors"
	"github.com/mvijayanand/tracing-framework/internal/source"
	"github.com/mvijayanand/tracing-framework/internal/tracedb"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
	"github.com/stretchr/testify/require"
)

func TestBinarySource_BadMagicIsParseFailure(t *testing.T) {
	src := source.NewBinarySource()
	require.NoError(t, src.Initialize(tracedb.New(), source.ContextInfo{}, 0, nil, 0, 0))

	err := src.Load(bytes.NewReader([]byte("NOPE....")))
	require.Error(t, err)
	require.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}

func TestBinarySource_ValidEnvelopeIsUnsupported(t *testing.T) {
	src := source.NewBinarySource()
	require.NoError(t, src.Initialize(tracedb.New(), source.ContextInfo{},
		tracetypes.FlagHasHighResolutionTimes, nil, 1700000000, 0.002))

	var buf bytes.Buffer
	buf.WriteString("WTF1")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(3)))

	err := src.Load(&buf)
	require.Error(t, err)
	require.True(t, stderrors.Is(err, errors.ErrUnsupportedFormat))
	require.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}

func TestBinarySource_TruncatedEnvelope(t *testing.T) {
	src := source.NewBinarySource()
	require.NoError(t, src.Initialize(tracedb.New(), source.ContextInfo{}, 0, nil, 0, 0))

	err := src.Load(bytes.NewReader([]byte("WT")))
	require.Error(t, err)
	require.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}
