package moqt

// SetupParameterKey identifies a CLIENT_SETUP/SERVER_SETUP parameter.
type SetupParameterKey uint64

const (
	SetupParamRole              SetupParameterKey = 0x0
	SetupParamPath              SetupParameterKey = 0x1
	SetupParamMaxSubscribeID    SetupParameterKey = 0x2
	SetupParamSupportObjectAcks SetupParameterKey = 0xbbf1439
)

// TrackRequestParameterKey identifies a SUBSCRIBE/FETCH/ANNOUNCE parameter.
type TrackRequestParameterKey uint64

const (
	TrackParamAuthorizationInfo TrackRequestParameterKey = 0x2
	TrackParamDeliveryTimeout   TrackRequestParameterKey = 0x3
	TrackParamMaxCacheDuration  TrackRequestParameterKey = 0x4
	TrackParamOackWindowSize    TrackRequestParameterKey = 0xbbf1439
)

// Parameter is one decoded (key, value) pair from a parameter map. Value is
// the raw payload bytes; integer-valued parameters decode it again via
// decodeParamVarInt.
type Parameter struct {
	Key   uint64
	Value []byte
}

// encodeVarIntParam builds a Parameter whose value is itself the minimum-
// length VarInt62 encoding of v — the shape used by every integer-valued
// parameter (kRole, kMaxSubscribeId, kDeliveryTimeout, kMaxCacheDuration,
// kOackWindowSize, kSupportObjectAcks).
func encodeVarIntParam(key uint64, v uint64) (Parameter, error) {
	val, err := appendVarInt(nil, v)
	if err != nil {
		return Parameter{}, err
	}
	return Parameter{Key: key, Value: val}, nil
}

// decodeParamVarInt decodes a parameter's payload as a VarInt62, requiring
// the inner varint to consume the payload exactly — the uniform check
// spec.md §9 asks for in place of the source's occasional elision of it.
func decodeParamVarInt(value []byte) (uint64, error) {
	v, n, err := decodeVarInt(value)
	if err != nil {
		return 0, err
	}
	if n != len(value) {
		return 0, ErrParameterLengthMismatch
	}
	return v, nil
}

// paramFields renders a parameter list's wire form: a VarInt62 count
// followed by (key, length-prefixed value) pairs, in the order given.
func paramFields(params []Parameter) []wireType {
	fields := make([]wireType, 0, 1+2*len(params))
	fields = append(fields, wireVarInt(uint64(len(params))))
	for _, p := range params {
		fields = append(fields, wireVarInt(p.Key), wireVarIntBytes(p.Value))
	}
	return fields
}

// setupIntParamKeys are the setup-parameter keys whose value is itself a
// VarInt62, per spec.md §3.2.
var setupIntParamKeys = []uint64{
	uint64(SetupParamRole),
	uint64(SetupParamMaxSubscribeID),
	uint64(SetupParamSupportObjectAcks),
}

// trackRequestIntParamKeys are the track-request parameter keys whose value
// is itself a VarInt62, per spec.md §3.2. TrackParamAuthorizationInfo is
// deliberately excluded: its value is an opaque string, not a varint.
var trackRequestIntParamKeys = []uint64{
	uint64(TrackParamDeliveryTimeout),
	uint64(TrackParamMaxCacheDuration),
	uint64(TrackParamOackWindowSize),
}

func isIntParamKey(key uint64, intKeys []uint64) bool {
	for _, k := range intKeys {
		if k == key {
			return true
		}
	}
	return false
}

// readParamList reads a VarInt62 count followed by that many (key,
// length-prefixed value) pairs. It rejects a repeated key with
// ErrProtocolViolation, mirroring the per-key Option<T> duplicate check in
// the original parser. intKeys names the integer-valued parameter keys for
// the caller's namespace (setupIntParamKeys or trackRequestIntParamKeys);
// any of those present are required to decode as a VarInt62 consuming
// their declared length exactly, per spec.md §9's uniform-check
// requirement.
func readParamList(r *dataReader, intKeys ...uint64) ([]Parameter, error) {
	count, err := r.readVarInt()
	if err != nil {
		return nil, &ParseError{Field: "param_count", Err: err}
	}
	params := make([]Parameter, 0, count)
	seen := make(map[uint64]bool, count)
	for i := uint64(0); i < count; i++ {
		key, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{Field: "param_key", Err: err}
		}
		value, err := r.readVarIntBytes()
		if err != nil {
			return nil, &ParseError{Field: "param_value", Err: err}
		}
		if seen[key] {
			return nil, &ParseError{Field: "param_key", Err: ErrProtocolViolation}
		}
		seen[key] = true
		if isIntParamKey(key, intKeys) {
			if _, err := decodeParamVarInt(value); err != nil {
				return nil, &ParseError{Field: "param_value", Err: err}
			}
		}
		params = append(params, Parameter{Key: key, Value: value})
	}
	return params, nil
}

// findParam returns the value for key and whether it was present.
func findParam(params []Parameter, key uint64) ([]byte, bool) {
	for _, p := range params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}
