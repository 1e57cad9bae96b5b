package types

// Pairing is one curated gin-to-tonic record. The natural key is Name,
// matched case-insensitively.
type Pairing struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Tonic   string `json:"tonic"`
	Garnish string `json:"garnish"`
	Why     string `json:"why"`

	// AmazonLink is derived from Tonic at read time and never persisted.
	AmazonLink string `json:"amazonLink,omitempty"`
}

// PairingUpdate carries the fields a partial update may touch. Name is the
// natural key and cannot be changed in place.
type PairingUpdate struct {
	Profile *string `json:"profile"`
	Tonic   *string `json:"tonic"`
	Garnish *string `json:"garnish"`
	Why     *string `json:"why"`
}

// TonicLink maps a tonic water name (lowercased) to a shop URL.
type TonicLink struct {
	Tonic string `json:"tonic"`
	URL   string `json:"url"`
}
