package catalog

// Reserved top-level keys of a general catalog. They hold catalog metadata,
// never model configuration.
const (
	KeyName        = "name"
	KeyDescription = "description"
	KeyDefault     = "default"
)

var reservedKeys = map[string]bool{
	KeyName:        true,
	KeyDescription: true,
	KeyDefault:     true,
}

// IsReserved reports whether key is catalog metadata rather than a model identifier.
func IsReserved(key string) bool {
	return reservedKeys[key]
}

// Stub is the minimal configuration written for a model that is priced but
// not yet configured. Field order matches the on-disk layout.
type Stub struct {
	Params       []Param  `json:"params"`
	Type         TypeSpec `json:"type"`
	RemoveParams []string `json:"removeParams"`
}

// Param bounds a single request parameter.
type Param struct {
	Key      string `json:"key"`
	MaxValue int    `json:"maxValue"`
}

// TypeSpec describes the primary model type and the content it accepts.
type TypeSpec struct {
	Primary   string   `json:"primary"`
	Supported []string `json:"supported"`
}

// NewStub returns a fresh stub. Slices are never shared between calls.
func NewStub() Stub {
	// Only max_tokens is bounded; top_k, top_p and friends stay off the stub.
	return Stub{
		Params: []Param{
			{Key: "max_tokens", MaxValue: 64000},
		},
		Type: TypeSpec{
			Primary:   "chat",
			Supported: []string{"image", "pdf", "doc", "tools"},
		},
		RemoveParams: []string{"top_p"},
	}
}
