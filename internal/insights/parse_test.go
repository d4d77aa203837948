package insights

import (
	"testing"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	valid := `{"insights":[
		{"type":"pattern","title":"A","description":"a"},
		{"type":"Alert","title":"B","description":"b"},
		{"type":"forecast","title":"C","description":"c"}
	]}`

	got, err := Parse([]byte(valid))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, model.InsightTypeAlert, got[1].Type)

	got, err = Parse([]byte(`[{"type":"pattern","title":"A","description":"a"},{"type":"education","title":"B","description":"b"},{"type":"achievement","title":"C","description":"c"}]`))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `the model said hello`},
		{"not an array", `{"insights":"nope"}`},
		{"two insights", `{"insights":[{"type":"pattern","title":"A","description":"a"},{"type":"pattern","title":"B","description":"b"}]}`},
		{"unknown type", `[{"type":"rumor","title":"A","description":"a"},{"type":"pattern","title":"B","description":"b"},{"type":"pattern","title":"C","description":"c"}]`},
		{"missing description", `[{"type":"pattern","title":"A"},{"type":"pattern","title":"B","description":"b"},{"type":"pattern","title":"C","description":"c"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestFallback(t *testing.T) {
	fb := Fallback()
	require.Len(t, fb, ExpectedCount)
	for _, ins := range fb {
		assert.True(t, ins.Type.Valid())
		assert.NotEmpty(t, ins.Title)
		assert.NotEmpty(t, ins.Description)
	}
}
