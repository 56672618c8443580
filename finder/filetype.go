package finder

import (
	"path"
	"strings"
)

// TypeClass is the derived classification of a file, used by the type
// bucket views.
type TypeClass string

const (
	TypeImage    TypeClass = "image"
	TypeVideo    TypeClass = "video"
	TypeAudio    TypeClass = "audio"
	TypeDocument TypeClass = "document"
	// TypeOther is the fallback for unrecognized extensions.
	TypeOther TypeClass = "file"
)

var extensionClasses = map[string]TypeClass{
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage,
	"webp": TypeImage, "svg": TypeImage, "bmp": TypeImage, "ico": TypeImage,
	"avif": TypeImage, "heic": TypeImage, "tiff": TypeImage,

	"mp4": TypeVideo, "avi": TypeVideo, "mov": TypeVideo, "mkv": TypeVideo,
	"webm": TypeVideo, "flv": TypeVideo, "wmv": TypeVideo, "m4v": TypeVideo,
	"mpg": TypeVideo, "mpeg": TypeVideo, "3gp": TypeVideo,

	"mp3": TypeAudio, "wav": TypeAudio, "flac": TypeAudio, "ogg": TypeAudio,
	"aac": TypeAudio, "m4a": TypeAudio, "wma": TypeAudio, "opus": TypeAudio,

	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument,
	"txt": TypeDocument, "rtf": TypeDocument, "odt": TypeDocument,
	"xls": TypeDocument, "xlsx": TypeDocument, "ppt": TypeDocument,
	"pptx": TypeDocument, "csv": TypeDocument, "md": TypeDocument,
}

// ClassifyName derives the type class from a file name's extension.
func ClassifyName(name string) TypeClass {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if class, ok := extensionClasses[ext]; ok {
		return class
	}

	return TypeOther
}
