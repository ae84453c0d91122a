// Package prompt holds the canonical, provider-agnostic Prompt and
// Message model: the single representation every provider translation
// starts from.
package prompt

// ContentKind identifies which variant of Content is populated.
type ContentKind string

const (
	ContentText     ContentKind = "text"
	ContentImage    ContentKind = "image"
	ContentAudio    ContentKind = "audio"
	ContentDocument ContentKind = "document"
	ContentBinary   ContentKind = "binary"
)

// Content is a single part of a message. It is a closed union: Kind
// selects exactly one of Text/Image/Audio/Document/Binary as meaningful.
// Bind only ever rewrites Text; every other variant is byte-identical
// before and after a bind pass.
type Content struct {
	Kind     ContentKind      `json:"kind"`
	Text     string           `json:"text,omitempty"`
	Image    *ImageRef        `json:"image,omitempty"`
	Audio    *AudioRef        `json:"audio,omitempty"`
	Document *DocumentRef     `json:"document,omitempty"`
	Binary   *BinaryRef       `json:"binary,omitempty"`
}

type ImageRef struct {
	URL      string `json:"url,omitempty"`
	Base64   string `json:"base64,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type AudioRef struct {
	URL      string `json:"url,omitempty"`
	Base64   string `json:"base64,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

type DocumentRef struct {
	URL      string `json:"url,omitempty"`
	Base64   string `json:"base64,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

type BinaryRef struct {
	Data     []byte `json:"data,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

func Text(s string) Content { return Content{Kind: ContentText, Text: s} }

func ImageURL(url string) Content {
	return Content{Kind: ContentImage, Image: &ImageRef{URL: url, Detail: "auto"}}
}

func ImageBase64(data, mime string) Content {
	return Content{Kind: ContentImage, Image: &ImageRef{Base64: data, MIMEType: mime, Detail: "auto"}}
}

func AudioURL(url, mime string) Content {
	return Content{Kind: ContentAudio, Audio: &AudioRef{URL: url, MIMEType: mime}}
}

func AudioBase64(data, mime string) Content {
	return Content{Kind: ContentAudio, Audio: &AudioRef{Base64: data, MIMEType: mime}}
}

func DocumentURL(url, mime string) Content {
	return Content{Kind: ContentDocument, Document: &DocumentRef{URL: url, MIMEType: mime}}
}

func DocumentBase64(data, mime string) Content {
	return Content{Kind: ContentDocument, Document: &DocumentRef{Base64: data, MIMEType: mime}}
}

func Binary(data []byte, mime string) Content {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Content{Kind: ContentBinary, Binary: &BinaryRef{Data: cp, MIMEType: mime}}
}

func (c Content) clone() Content {
	out := c
	if c.Image != nil {
		img := *c.Image
		out.Image = &img
	}
	if c.Audio != nil {
		a := *c.Audio
		out.Audio = &a
	}
	if c.Document != nil {
		d := *c.Document
		out.Document = &d
	}
	if c.Binary != nil {
		b := *c.Binary
		data := make([]byte, len(b.Data))
		copy(data, b.Data)
		b.Data = data
		out.Binary = &b
	}
	return out
}

func (c Content) withText(text string) Content {
	if c.Kind != ContentText {
		return c
	}
	out := c.clone()
	out.Text = text
	return out
}
