package kerbal

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

// Building the stream tables only takes method values, so an unconnected
// session is enough to compare them with the catalog.
func TestStreams_MatchCatalog(t *testing.T) {
	s := &Session{}

	for _, category := range telemetrics.Categories() {
		if category == telemetrics.Resource {
			continue
		}

		streams, err := s.streams(category)
		require.NoError(t, err, "%s", category)

		specs, err := telemetrics.Attributes(category)
		require.NoError(t, err)

		var want, got []string
		for _, spec := range specs {
			want = append(want, spec.Name)
		}
		for name := range streams {
			got = append(got, name)
		}
		sort.Strings(want)
		sort.Strings(got)
		assert.Equal(t, want, got, "%s", category)
	}
}

func TestStreams_UnknownCategory(t *testing.T) {
	_, err := (&Session{}).streams("warp_drive")
	assert.True(t, errors.Is(err, telemetrics.ErrUnknownCategory))
}

func TestBind_Resource(t *testing.T) {
	s := &Session{}

	for _, attribute := range []string{"LiquidFuel.amount", "SolidFuel.max"} {
		stream, err := s.Bind(telemetrics.Resource, attribute)
		require.NoError(t, err, attribute)
		assert.NotNil(t, stream, attribute)
	}

	_, err := s.Bind(telemetrics.Resource, "LiquidFuel.density")
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestBind_UnknownAttribute(t *testing.T) {
	_, err := (&Session{}).Bind(telemetrics.Flight, "warp_factor")
	assert.True(t, errors.Is(err, telemetrics.ErrUnknownAttribute))
}
