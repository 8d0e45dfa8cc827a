package common_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
)

type pingCommand struct{ Value string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	return "pong:" + request.(*pingCommand).Value, nil
}

func TestMediator_DispatchesByRequestType(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, pingHandler{}))

	// Act
	resp, err := m.Send(context.Background(), &pingCommand{Value: "x"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong:x", resp)
}

func TestMediator_RejectsDuplicateAndUnknownTypes(t *testing.T) {
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, pingHandler{}))

	assert.Error(t, common.RegisterHandler[*pingCommand](m, pingHandler{}))

	_, err := m.Send(context.Background(), &struct{}{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewaresRunOutermostFirst(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, pingHandler{}))

	var order []string
	trace := func(name string) common.Middleware {
		return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
			order = append(order, name+":before")
			resp, err := next(ctx, request)
			order = append(order, name+":after")
			return resp, err
		}
	}
	m.Use(trace("outer"))
	m.Use(trace("inner"))

	// Act
	_, err := m.Send(context.Background(), &pingCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, order)
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	logger := common.LoggerFromContext(context.Background())

	require.NotNil(t, logger)
	logger.Log(common.LevelInfo, "discarded", nil)
}
