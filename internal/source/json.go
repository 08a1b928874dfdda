package source

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/mvijayanand/tracing-framework/internal/argdata"
	"github.com/mvijayanand/tracing-framework/internal/errors"
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

// JSONSource decodes a .wtf-json event list and pushes each event into
// the sink. It performs no scope/instance semantics itself — a literal
// "wtf.scope#enter"/"wtf.scope#leave" name pair in the stream is
// resolved like any other type and the real nesting work happens
// later, in EventStore.Rebuild.
type JSONSource struct {
	sink        EventSink
	info        ContextInfo
	flags       tracetypes.DataSourceFlags
	metadata    map[string]string
	timebaseSec float64
	timeDelay   float64
}

type jsonEvent struct {
	Zone   string          `json:"zone"`
	Name   string          `json:"name"`
	Class  string          `json:"class,omitempty"`
	TimeUs int64           `json:"time_us"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// NewJSONSource creates an uninitialized JSON adapter.
func NewJSONSource() *JSONSource { return &JSONSource{} }

func (j *JSONSource) Initialize(sink EventSink, info ContextInfo, flags tracetypes.DataSourceFlags, metadata map[string]string, timebaseSec, timeDelaySec float64) error {
	j.sink = sink
	j.info = info
	j.flags = flags
	j.metadata = metadata
	j.timebaseSec = timebaseSec
	j.timeDelay = timeDelaySec
	return nil
}

// Load decodes the full JSON array from r and pushes every event. A
// malformed stream is reported to the caller and nothing already
// pushed before the failure is rolled back — the zone state remains
// as of the last commit until the next successful Rebuild.
func (j *JSONSource) Load(r io.Reader) error {
	if j.sink == nil {
		return errors.NewSourceError(errors.CodeParseFailed, "json source not initialized", nil)
	}

	var events []jsonEvent
	dec := json.NewDecoder(r)
	if err := dec.Decode(&events); err != nil {
		return errors.NewSourceError(errors.CodeParseFailed, "decode wtf-json stream", err)
	}

	types := j.sink.Types()
	for _, ev := range events {
		class := tracetypes.ClassInstance
		if ev.Class == "SCOPE" {
			class = tracetypes.ClassScope
		}
		et := types.Define(eventtype.Desc{Name: ev.Name, Class: class})
		args, err := decodeArgObject(ev.Args)
		if err != nil {
			return errors.NewSourceError(errors.CodeParseFailed, "decode event arguments", err)
		}
		j.sink.AddEvent(ev.Zone, et, ev.TimeUs, args)
	}
	return nil
}

// decodeArgObject walks a JSON object token by token so argument bags
// keep the key order of the source file — decoding through a Go map
// would randomize it, and ArgumentData is an ordered mapping.
func decodeArgObject(raw json.RawMessage) (*argdata.ArgumentData, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, errors.NewSourceError(errors.CodeParseFailed, "event args must be a JSON object", nil)
	}

	d := argdata.New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.NewSourceError(errors.CodeParseFailed, "non-string argument key", nil)
		}
		var rv json.RawMessage
		if err := dec.Decode(&rv); err != nil {
			return nil, err
		}
		v, err := decodeArgValue(rv)
		if err != nil {
			return nil, err
		}
		d.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	if d.Len() == 0 {
		return nil, nil
	}
	return d, nil
}

func decodeArgValue(raw json.RawMessage) (argdata.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return argdata.Value{}, nil
	}
	switch raw[0] {
	case '{':
		nested, err := decodeArgObject(raw)
		if err != nil {
			return argdata.Value{}, err
		}
		return argdata.Map(nested), nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return argdata.Value{}, err
		}
		list := make([]argdata.Value, len(elems))
		for i, e := range elems {
			v, err := decodeArgValue(e)
			if err != nil {
				return argdata.Value{}, err
			}
			list[i] = v
		}
		return argdata.List(list), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return argdata.Value{}, err
		}
		return argdata.String(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return argdata.Value{}, err
		}
		if b {
			return argdata.Int64(1), nil
		}
		return argdata.Int64(0), nil
	case 'n':
		return argdata.Value{}, nil
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return argdata.Value{}, err
		}
		if f == float64(int64(f)) {
			return argdata.Int64(int64(f)), nil
		}
		return argdata.Float(f), nil
	}
}
