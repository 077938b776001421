package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var v struct {
		D Duration `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"5s"}`), &v))
	require.Equal(t, 5*time.Second, v.D.Duration)
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var v struct {
		D Duration `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":1500000000}`), &v))
	require.Equal(t, 1500*time.Millisecond, v.D.Duration)
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var v struct {
		D Duration `json:"d"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"d":"not-a-duration"}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"d":true}`), &v))
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 2 * time.Minute})
	require.NoError(t, err)
	require.JSONEq(t, `"2m0s"`, string(b))
}
