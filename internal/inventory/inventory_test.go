package inventory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ClassNone},
		{"sentinel", fmt.Errorf("wrapped: %w", ErrNotFound), ClassNotFound},
		{"snapshot not found", &smithy.GenericAPIError{Code: "InvalidSnapshot.NotFound"}, ClassNotFound},
		{"volume not found", &smithy.GenericAPIError{Code: "InvalidVolume.NotFound"}, ClassNotFound},
		{"unauthorized", &smithy.GenericAPIError{Code: "UnauthorizedOperation"}, ClassUnauthorized},
		{"throttled", fmt.Errorf("op: %w", &smithy.GenericAPIError{Code: "RequestLimitExceeded"}), ClassThrottled},
		{"in use", &smithy.GenericAPIError{Code: "InvalidSnapshot.InUse"}, ClassInUse},
		{"malformed", &smithy.GenericAPIError{Code: "InvalidSnapshotID.Malformed"}, ClassMalformed},
		{"unknown api code", &smithy.GenericAPIError{Code: "InternalError"}, ClassOther},
		{"plain error", errors.New("connection reset"), ClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "InvalidSnapshot.NotFound"}))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "UnauthorizedOperation"}))
	assert.False(t, IsNotFound(nil))
}
