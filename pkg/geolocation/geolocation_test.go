package geolocation

import (
	"context"
	"errors"
	"testing"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	position := ctdf.Coordinate{Latitude: 24.4539, Longitude: 54.3773}

	coordinate, err := Fixed{Position: position}.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, position, coordinate)
}

func TestFixedInvalidPosition(t *testing.T) {
	_, err := Fixed{Position: ctdf.Coordinate{Latitude: 120}}.CurrentPosition(context.Background())

	var locationError *Error
	require.True(t, errors.As(err, &locationError))
	assert.Equal(t, ReasonUnavailable, locationError.Reason)
}

func TestFixedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fixed{Position: ctdf.Coordinate{Latitude: 24.4539, Longitude: 54.3773}}.CurrentPosition(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{Reason: ReasonPermissionDenied}.CurrentPosition(context.Background())

	var locationError *Error
	require.True(t, errors.As(err, &locationError))
	assert.Equal(t, ReasonPermissionDenied, locationError.Reason)
	assert.Equal(t, "geolocation permission_denied", err.Error())

	_, err = Unavailable{}.CurrentPosition(context.Background())
	require.True(t, errors.As(err, &locationError))
	assert.Equal(t, ReasonUnavailable, locationError.Reason)
}
