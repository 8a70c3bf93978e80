package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/supplier-resolver/internal/normalize"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

func newTestExtractor() *Extractor {
	return NewExtractor(types.AnchorConfig{MinLength: 4})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		word          string
		wantClass     Class
		wantRejection Rejection
	}{
		{"structural", "شركة", ClassGeneric, RejectStructural},
		{"structural english", "company", ClassGeneric, RejectStructural},
		{"activity with article", "التجارية", ClassGeneric, RejectActivity},
		{"activity with lil prefix", "للتجارة", ClassGeneric, RejectActivity},
		{"descriptor", "الدولية", ClassDescriptor, RejectDescriptor},
		{"masculine descriptor", "الذهبي", ClassDescriptor, RejectDescriptor},
		{"geography", "السعودية", ClassGeneric, RejectGeography},
		{"geography english", "gulf", ClassGeneric, RejectGeography},
		{"known first name", "محمد", ClassPerson, RejectNone},
		{"abd prefixed name", "عبدالرحمن", ClassPerson, RejectNone},
		{"short known name", "علي", ClassPerson, RejectLength},
		{"brand", "المراعي", ClassBrand, RejectNone},
		{"brand english", "horizon", ClassBrand, RejectNone},
		{"short word", "نور", ClassGeneric, RejectLength},
		{"digits only", "2024", ClassGeneric, RejectLength},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := e.Classify(normalize.Name(tt.word))
			assert.Equal(t, tt.wantClass, tok.Class)
			assert.Equal(t, tt.wantRejection, tok.Rejection)
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "brand between generic words",
			input: "شركة المراعي للتجارة",
			want:  []string{"المراعي"},
		},
		{
			name:  "two brand words form a compound",
			input: "مؤسسة النخيل الأخضر",
			want:  []string{"النخيل", "النخيل الأخضر", "الأخضر"},
		},
		{
			name:  "masculine descriptor is not an anchor",
			input: "مؤسسة النخيل الذهبي",
			want:  []string{"النخيل"},
		},
		{
			name:  "person prefix spans a short word",
			input: "مؤسسة عبد الله",
			want:  []string{"عبد الله"},
		},
		{
			name:  "name prefix tail not emitted alone",
			input: "ابو بكر الصديق",
			want:  []string{"ابو بكر", "الصديق"},
		},
		{
			name:  "known name followed by short name",
			input: "محمد علي",
			want:  []string{"محمد", "محمد علي"},
		},
		{
			name:  "two short names",
			input: "علي حسن",
			want:  []string{"علي حسن"},
		},
		{
			name:  "short names between generic words",
			input: "مؤسسة علي حسن للتجارة",
			want:  []string{"علي حسن"},
		},
		{
			name:  "compound blocked by rejected neighbour",
			input: "المراعي الدولية",
			want:  []string{"المراعي"},
		},
		{
			name:  "english name keeps only the distinctive word",
			input: "gulf horizon international medical",
			want:  []string{"horizon"},
		},
		{
			name:  "duplicates collapsed",
			input: "النخيل النخيل",
			want:  []string{"النخيل", "النخيل النخيل"},
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(normalize.Name(tt.input))
			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = normalize.Name(w)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestExtractOnlyGenericWordsYieldsNothing(t *testing.T) {
	inputs := []string{
		"",
		"شركة التجارة الدولية السعودية",
		"مؤسسة الخدمات الطبية المتحدة",
		"international trading company ltd",
		"مجموعة الخليج للمقاولات",
	}
	e := newTestExtractor()
	for _, in := range inputs {
		assert.Empty(t, e.Extract(normalize.Name(in)), "input %q", in)
	}
}

func TestNewExtractorDefaultsMinLength(t *testing.T) {
	e := NewExtractor(types.AnchorConfig{})
	assert.Equal(t, 4, e.minLength)
}

func TestAnalyze(t *testing.T) {
	e := newTestExtractor()
	toks := e.Analyze(normalize.Name("شركة محمد"))
	if assert.Len(t, toks, 2) {
		assert.Equal(t, ClassGeneric, toks[0].Class)
		assert.Equal(t, ClassPerson, toks[1].Class)
	}
}

func TestIsGeneric(t *testing.T) {
	for _, w := range []string{"شركة", "للتجارة", "الذهبي", "ذهبية", "الإماراتية", "international", "co"} {
		assert.True(t, IsGeneric(normalize.Name(w)), w)
	}
	for _, w := range []string{"النخيل", "horizon", "محمد", "نور"} {
		assert.False(t, IsGeneric(normalize.Name(w)), w)
	}
}
