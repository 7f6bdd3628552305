package utils_test

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/readiness/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriter(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriterSize(&destination, 4096)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	_, writeError := flushingWriter.Write([]byte("Readiness: orchestrator\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "Readiness: orchestrator\n", destination.String())

	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}

func TestCommandContextAccessor(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, suiteAvailable := accessor.SuitePath(context.Background())
	require.False(testInstance, suiteAvailable)

	_, emptyAvailable := accessor.SuitePath(accessor.WithSuitePath(context.Background(), ""))
	require.False(testInstance, emptyAvailable)

	executionContext := accessor.WithSuitePath(context.Background(), "readiness.yaml")

	suitePath, suiteAvailable := accessor.SuitePath(executionContext)
	require.True(testInstance, suiteAvailable)
	require.Equal(testInstance, "readiness.yaml", suitePath)
}
