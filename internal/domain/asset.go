package domain

// RawAsset is an uploaded file before classification. ContentType is
// the declared MIME type; its prefix decides whether the asset becomes
// an image or a video story.
type RawAsset struct {
	Name        string
	ContentType string
	Data        []byte
}

func (a RawAsset) Empty() bool {
	return len(a.Data) == 0
}
