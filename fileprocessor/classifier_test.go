package fileprocessor

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		want     FileType
	}{
		{"pdf extension", "cours.pdf", "", TypePDF},
		{"png extension", "schema.png", "", TypeImage},
		{"jpg extension", "photo.jpg", "", TypeImage},
		{"jpeg extension", "photo.jpeg", "", TypeImage},
		{"gif extension", "anim.gif", "", TypeImage},
		{"bmp extension", "scan.bmp", "", TypeImage},
		{"webp extension", "figure.webp", "", TypeImage},
		{"txt extension", "notes.txt", "", TypeText},
		{"md extension", "README.md", "", TypeText},
		{"csv extension", "grades.csv", "", TypeText},
		{"uppercase extension", "NOTES.TXT", "", TypeText},
		{"extension wins over mime", "notes.txt", "application/pdf", TypeText},
		{"mime pdf fallback", "scan", "application/pdf", TypePDF},
		{"mime image fallback", "capture", "image/tiff", TypeImage},
		{"mime text fallback", "data", "text/plain", TypeText},
		{"unknown extension uses mime", "document.xyz", "text/html", TypeText},
		{"nothing resolves defaults to image", "mystery.bin", "application/octet-stream", TypeImage},
		{"no extension no mime", "blob", "", TypeImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.fileName, tt.mimeType); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.fileName, tt.mimeType, got, tt.want)
			}
		})
	}
}
