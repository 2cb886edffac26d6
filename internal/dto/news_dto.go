package dto

type BriefResponse struct {
	Index     int    `json:"index"`
	Shown     bool   `json:"shown"`
	Brief     string `json:"brief,omitempty"`
	Discarded bool   `json:"discarded,omitempty"`
}
