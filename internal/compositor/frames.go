package compositor

import "github.com/blackrubyde-web/adruby-sub008/internal/domain"

// deviceFrame describes the screen region of an illustrated device as
// fractions of the background image, used when the caller supplies no
// explicit placement bounds.
type deviceFrame struct {
	screen domain.NormalizedBounds
}

var deviceFrames = map[domain.DeviceType]deviceFrame{
	domain.DeviceMacbook: {screen: domain.NormalizedBounds{X: 0.05, Y: 0.06, Width: 0.90, Height: 0.58,
		Rationale: "macbook frame default screen area"}},
	domain.DeviceIPad: {screen: domain.NormalizedBounds{X: 0.08, Y: 0.08, Width: 0.84, Height: 0.84,
		Rationale: "ipad frame default screen area"}},
	domain.DeviceIPhone: {screen: domain.NormalizedBounds{X: 0.10, Y: 0.08, Width: 0.80, Height: 0.84,
		Rationale: "iphone frame default screen area"}},
}

// defaultFreestandingBounds centers the product at half the canvas size.
var defaultFreestandingBounds = domain.NormalizedBounds{
	X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5,
	Rationale: "centered default placement",
}

// DefaultBounds returns the fallback placement region for an integration
// mode. For device mockups an unknown device type falls back to the iphone
// frame, the most common mockup in practice.
func DefaultBounds(mode domain.IntegrationMode, device domain.DeviceType) domain.NormalizedBounds {
	if mode == domain.IntegrationDeviceMockup {
		if frame, ok := deviceFrames[device]; ok {
			return frame.screen
		}
		return deviceFrames[domain.DeviceIPhone].screen
	}
	return defaultFreestandingBounds
}
