package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.Category
		mixed   bool
		wantErr bool
	}{
		{
			name: "plain JSON object",
			raw:  `{"reason":"lecture slides","category":"study","confidence":0.9,"is_mixed":false,"description":"weekly slides"}`,
			want: domain.CategoryStudy,
		},
		{
			name:  "fenced JSON with prose",
			raw:   "Here is my judgment:\n```json\n{\"reason\":\"mix of hw and slides\",\"category\":\"support\",\"confidence\":0.8,\"is_mixed\":true,\"description\":\"assorted\"}\n```",
			want:  domain.CategorySupport,
			mixed: true,
		},
		{
			name: "category case and whitespace tolerated",
			raw:  `{"reason":"hw","category":" Practice ","confidence":0.85}`,
			want: domain.CategoryPractice,
		},
		{
			name: "braces inside strings do not confuse extraction",
			raw:  `{"reason":"contains {curly} names","category":"skip","confidence":0.7,"description":"cache"}`,
			want: domain.CategorySkip,
		},
		{
			name:    "unknown category rejected",
			raw:     `{"reason":"?","category":"archive","confidence":0.9}`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			raw:     "I think this is probably study material.",
			wantErr: true,
		},
		{
			name:    "truncated JSON",
			raw:     `{"reason":"cut off","category":"study"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVerdict(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Category)
			assert.Equal(t, tt.mixed, v.Mixed)
		})
	}
}
