package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/snapshot"
)

// EC2API is the subset of *ec2.Client used here.
type EC2API interface {
	ec2.DescribeSnapshotsAPIClient
	ec2.DescribeInstancesAPIClient
	ec2.DescribeVolumesAPIClient
	DeleteSnapshot(ctx context.Context, in *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error)
}

// EC2 implements Client on top of the EC2 API.
type EC2 struct {
	api      EC2API
	ownerIDs []string
}

// NewEC2 wraps an existing EC2 API client.
func NewEC2(api EC2API, ownerIDs []string) *EC2 {
	if len(ownerIDs) == 0 {
		ownerIDs = []string{"self"}
	}
	return &EC2{api: api, ownerIDs: ownerIDs}
}

// NewEC2FromConfig loads the default AWS credential chain and builds the client.
func NewEC2FromConfig(ctx context.Context, cfg config.AWSConfig) (*EC2, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var ec2Opts []func(*ec2.Options)
	if cfg.Endpoint != "" {
		ec2Opts = append(ec2Opts, func(o *ec2.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return NewEC2(ec2.NewFromConfig(awsCfg, ec2Opts...), cfg.OwnerIDs), nil
}

func (c *EC2) ListSnapshots(ctx context.Context) ([]snapshot.Snapshot, error) {
	p := ec2.NewDescribeSnapshotsPaginator(c.api, &ec2.DescribeSnapshotsInput{
		OwnerIds: c.ownerIDs,
	})

	var out []snapshot.Snapshot
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ec2 describe snapshots: %w", err)
		}
		for _, s := range page.Snapshots {
			out = append(out, fromEC2Snapshot(s))
		}
	}
	return out, nil
}

func (c *EC2) ListRunningInstances(ctx context.Context) ([]snapshot.Instance, error) {
	p := ec2.NewDescribeInstancesPaginator(c.api, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: []string{string(types.InstanceStateNameRunning)},
		}},
	})

	var out []snapshot.Instance
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ec2 describe instances: %w", err)
		}
		for _, r := range page.Reservations {
			for _, i := range r.Instances {
				inst := snapshot.Instance{ID: aws.ToString(i.InstanceId)}
				if i.State != nil {
					inst.State = string(i.State.Name)
				}
				out = append(out, inst)
			}
		}
	}
	return out, nil
}

func (c *EC2) ListVolumes(ctx context.Context, ids ...string) ([]snapshot.Volume, error) {
	in := &ec2.DescribeVolumesInput{}
	if len(ids) > 0 {
		in.VolumeIds = ids
	}
	p := ec2.NewDescribeVolumesPaginator(c.api, in)

	var out []snapshot.Volume
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			if IsNotFound(err) {
				return nil, fmt.Errorf("ec2 describe volumes: %w: %w", ErrNotFound, err)
			}
			return nil, fmt.Errorf("ec2 describe volumes: %w", err)
		}
		for _, v := range page.Volumes {
			out = append(out, fromEC2Volume(v))
		}
	}
	return out, nil
}

func (c *EC2) DeleteSnapshot(ctx context.Context, id string) error {
	_, err := c.api.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{
		SnapshotId: aws.String(id),
	})
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return fmt.Errorf("ec2 delete snapshot %s: %w: %w", id, ErrNotFound, err)
	}
	return fmt.Errorf("ec2 delete snapshot %s: %w", id, err)
}

func fromEC2Snapshot(s types.Snapshot) snapshot.Snapshot {
	out := snapshot.Snapshot{
		ID:          aws.ToString(s.SnapshotId),
		VolumeID:    aws.ToString(s.VolumeId),
		State:       string(s.State),
		StartTime:   aws.ToTime(s.StartTime),
		SizeGiB:     aws.ToInt32(s.VolumeSize),
		Description: aws.ToString(s.Description),
	}
	if len(s.Tags) > 0 {
		out.Tags = make(map[string]string, len(s.Tags))
		for _, t := range s.Tags {
			out.Tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
	}
	return out
}

func fromEC2Volume(v types.Volume) snapshot.Volume {
	out := snapshot.Volume{
		ID:    aws.ToString(v.VolumeId),
		State: string(v.State),
	}
	for _, a := range v.Attachments {
		out.Attachments = append(out.Attachments, snapshot.Attachment{
			InstanceID: aws.ToString(a.InstanceId),
			State:      string(a.State),
		})
	}
	return out
}

// Ensure EC2 implements Client.
var _ Client = (*EC2)(nil)
