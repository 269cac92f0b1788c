package rekognition

// Config holds configuration for the Rekognition capture gate.
type Config struct {
	// Region is the AWS region where Rekognition will be called (e.g., "us-east-1")
	Region string

	// MinQuality is the minimum combined brightness/sharpness score
	// (0-1) a capture must reach before embedding extraction runs.
	MinQuality float64

	// MaxPoseDegrees bounds the absolute yaw and pitch of the face.
	// Heavily rotated faces produce unreliable embeddings.
	MaxPoseDegrees float64
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Region:         "us-east-1",
		MinQuality:     0.4,
		MaxPoseDegrees: 45,
	}
}
