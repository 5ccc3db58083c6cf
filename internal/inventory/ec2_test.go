package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/snapshot-reclaimer/internal/snapshot"
)

// fakeEC2 serves canned pages keyed by the incoming NextToken ("" = first page).
type fakeEC2 struct {
	snapshotPages map[string]*ec2.DescribeSnapshotsOutput
	instancePages map[string]*ec2.DescribeInstancesOutput
	volumePages   map[string]*ec2.DescribeVolumesOutput
	volumesErr    error
	deleteErr     error

	snapshotsIn []*ec2.DescribeSnapshotsInput
	instancesIn []*ec2.DescribeInstancesInput
	volumesIn   []*ec2.DescribeVolumesInput
	deleted     []string
}

func (f *fakeEC2) DescribeSnapshots(_ context.Context, in *ec2.DescribeSnapshotsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	f.snapshotsIn = append(f.snapshotsIn, in)
	return f.snapshotPages[aws.ToString(in.NextToken)], nil
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.instancesIn = append(f.instancesIn, in)
	return f.instancePages[aws.ToString(in.NextToken)], nil
}

func (f *fakeEC2) DescribeVolumes(_ context.Context, in *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	f.volumesIn = append(f.volumesIn, in)
	if f.volumesErr != nil {
		return nil, f.volumesErr
	}
	return f.volumePages[aws.ToString(in.NextToken)], nil
}

func (f *fakeEC2) DeleteSnapshot(_ context.Context, in *ec2.DeleteSnapshotInput, _ ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.SnapshotId))
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &ec2.DeleteSnapshotOutput{}, nil
}

func TestEC2_ListSnapshots_PaginatesAndMaps(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	api := &fakeEC2{snapshotPages: map[string]*ec2.DescribeSnapshotsOutput{
		"": {
			Snapshots: []types.Snapshot{{
				SnapshotId: aws.String("snap-A"),
				State:      types.SnapshotStateCompleted,
				StartTime:  aws.Time(started),
				VolumeSize: aws.Int32(8),
				Tags:       []types.Tag{{Key: aws.String("env"), Value: aws.String("dev")}},
			}},
			NextToken: aws.String("page-2"),
		},
		"page-2": {
			Snapshots: []types.Snapshot{{SnapshotId: aws.String("snap-B"), VolumeId: aws.String("vol-1")}},
		},
	}}

	c := NewEC2(api, nil)
	snaps, err := c.ListSnapshots(context.Background())
	require.NoError(t, err)

	require.Len(t, snaps, 2)
	assert.Equal(t, snapshot.Snapshot{
		ID:        "snap-A",
		State:     "completed",
		StartTime: started,
		SizeGiB:   8,
		Tags:      map[string]string{"env": "dev"},
	}, snaps[0])
	assert.Equal(t, "vol-1", snaps[1].VolumeID)
	assert.True(t, snaps[1].HasVolume())
	assert.False(t, snaps[0].HasVolume())

	require.Len(t, api.snapshotsIn, 2)
	assert.Equal(t, []string{"self"}, api.snapshotsIn[0].OwnerIds)
}

func TestEC2_ListRunningInstances_FiltersOnState(t *testing.T) {
	api := &fakeEC2{instancePages: map[string]*ec2.DescribeInstancesOutput{
		"": {Reservations: []types.Reservation{{
			Instances: []types.Instance{
				{InstanceId: aws.String("i-1"), State: &types.InstanceState{Name: types.InstanceStateNameRunning}},
				{InstanceId: aws.String("i-2"), State: &types.InstanceState{Name: types.InstanceStateNameRunning}},
			},
		}}},
	}}

	c := NewEC2(api, []string{"123456789012"})
	got, err := c.ListRunningInstances(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []snapshot.Instance{
		{ID: "i-1", State: "running"},
		{ID: "i-2", State: "running"},
	}, got)
	require.Len(t, api.instancesIn, 1)
	require.Len(t, api.instancesIn[0].Filters, 1)
	assert.Equal(t, "instance-state-name", aws.ToString(api.instancesIn[0].Filters[0].Name))
	assert.Equal(t, []string{"running"}, api.instancesIn[0].Filters[0].Values)
}

func TestEC2_ListVolumes(t *testing.T) {
	api := &fakeEC2{volumePages: map[string]*ec2.DescribeVolumesOutput{
		"": {Volumes: []types.Volume{
			{VolumeId: aws.String("vol-2"), State: types.VolumeStateAvailable},
			{
				VolumeId: aws.String("vol-3"),
				State:    types.VolumeStateInUse,
				Attachments: []types.VolumeAttachment{{
					InstanceId: aws.String("i-9"),
					State:      types.VolumeAttachmentStateAttached,
				}},
			},
		}},
	}}

	c := NewEC2(api, nil)
	vols, err := c.ListVolumes(context.Background(), "vol-2", "vol-3")
	require.NoError(t, err)

	require.Len(t, vols, 2)
	assert.False(t, vols[0].Attached())
	assert.True(t, vols[1].Attached())
	assert.Equal(t, "i-9", vols[1].Attachments[0].InstanceID)
	assert.Equal(t, []string{"vol-2", "vol-3"}, api.volumesIn[0].VolumeIds)
}

func TestEC2_ListVolumes_NotFound(t *testing.T) {
	api := &fakeEC2{volumesErr: &smithy.GenericAPIError{Code: "InvalidVolume.NotFound"}}

	_, err := NewEC2(api, nil).ListVolumes(context.Background(), "vol-gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEC2_DeleteSnapshot(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		api := &fakeEC2{}
		require.NoError(t, NewEC2(api, nil).DeleteSnapshot(context.Background(), "snap-A"))
		assert.Equal(t, []string{"snap-A"}, api.deleted)
	})

	t.Run("not found wraps sentinel", func(t *testing.T) {
		api := &fakeEC2{deleteErr: &smithy.GenericAPIError{Code: "InvalidSnapshot.NotFound"}}
		err := NewEC2(api, nil).DeleteSnapshot(context.Background(), "snap-A")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("permission error keeps its class", func(t *testing.T) {
		api := &fakeEC2{deleteErr: &smithy.GenericAPIError{Code: "UnauthorizedOperation"}}
		err := NewEC2(api, nil).DeleteSnapshot(context.Background(), "snap-A")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Equal(t, ClassUnauthorized, Classify(err))
	})
}
