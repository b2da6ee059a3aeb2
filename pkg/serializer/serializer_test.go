package serializer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type borrowBody struct {
	BookID int64 `json:"bookId"`
}

func TestJSONSerializer_Deserialize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		body    string
		want    borrowBody
		wantErr bool
	}{
		{name: "ok", body: `{"bookId":7}`, want: borrowBody{BookID: 7}},
		{name: "wrong type", body: `{"bookId":"seven"}`, wantErr: true},
		{name: "garbage", body: "\xff\xfe", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c := e.NewContext(r, httptest.NewRecorder())

			var got borrowBody
			err := JSONSerializer{}.Deserialize(c, &got)
			if !tt.wantErr {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			require.Equal(t, http.StatusBadRequest, he.Code)
			require.Equal(t, "invalid request body", he.Message)
			require.Error(t, he.Internal)
		})
	}
}
