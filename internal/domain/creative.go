package domain

// IntegrationMode selects how the product image is placed into the scene.
type IntegrationMode string

const (
	// IntegrationDeviceMockup fills a rectangular screen region of a device
	// illustration with the product pixels, cropping to preserve fill.
	IntegrationDeviceMockup IntegrationMode = "device_mockup"
	// IntegrationFreestanding places a cut-out product directly in the scene
	// with synthetic glow, shadow and reflection layers.
	IntegrationFreestanding IntegrationMode = "freestanding"
)

// DeviceType identifies the illustrated device frame for mockup integration.
type DeviceType string

const (
	DeviceMacbook DeviceType = "macbook"
	DeviceIPad    DeviceType = "ipad"
	DeviceIPhone  DeviceType = "iphone"
)

// NormalizedBounds expresses a placement as fractions of the background
// dimensions, each component in [0,1]. Rationale records why the placement
// was chosen so decisions stay auditable after the fact.
type NormalizedBounds struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Rationale string  `json:"rationale,omitempty"`
}

// Valid reports whether the bounds describe a usable region.
func (b NormalizedBounds) Valid() bool {
	return b.Width > 0 && b.Height > 0 &&
		b.X >= 0 && b.Y >= 0 && b.X+b.Width <= 1 && b.Y+b.Height <= 1
}

// CreativeStrategy is the caller-supplied plan for one generation request.
type CreativeStrategy struct {
	Prompt        string            `json:"prompt"`
	Headline      string            `json:"headline,omitempty"`
	Integration   IntegrationMode   `json:"integration_mode"`
	Device        DeviceType        `json:"device_type,omitempty"`
	ProductBounds *NormalizedBounds `json:"product_bounds,omitempty"`
	AccentColor   string            `json:"accent_color,omitempty"`
	Effects       []string          `json:"effects,omitempty"`
	Locale        string            `json:"locale,omitempty"`
}

// GenerationStatus is the terminal status of a creative job.
type GenerationStatus string

const (
	StatusPassed     GenerationStatus = "passed"
	StatusBestEffort GenerationStatus = "best_effort"
	StatusFailed     GenerationStatus = "failed"
)

// CreativeResult is what the orchestrator hands back to the caller: final
// image bytes plus enough metadata to judge how the run went.
type CreativeResult struct {
	Image      []byte
	Format     string
	Width      int
	Height     int
	Attempts   int
	FinalScore float64
	Status     GenerationStatus
}
