package sface

// detectRequest is the payload for POST /detect.
type detectRequest struct {
	Img string `json:"img"` // base64-encoded JPEG
}

// detectResponse is the sidecar's answer to POST /detect.
type detectResponse struct {
	Faces []faceResult `json:"faces"`
}

// faceResult is one detected face. Box is (x, y, w, h) in pixels; Landmarks
// are five (x, y) points in YuNet order: right eye, left eye, nose, right
// mouth corner, left mouth corner.
type faceResult struct {
	Box        [4]int    `json:"box"`
	Landmarks  [5][2]int `json:"landmarks"`
	Confidence float64   `json:"confidence"`
}

// embedRequest is the payload for POST /embed. When Landmarks is present the
// sidecar aligns the face before embedding; otherwise it resizes the image as
// a pre-cropped face.
type embedRequest struct {
	Img       string     `json:"img"`
	Landmarks *[5][2]int `json:"landmarks,omitempty"`
}

// embedResponse is the sidecar's answer to POST /embed.
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}
