package volume

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

const (
	testZone     = "ap-northeast-1a"
	testInstance = "i-0123456789abcdef0"
)

// fakeEC2 はメモリ上のボリュームとインスタンスでEC2 APIを模倣する
type fakeEC2 struct {
	mu        sync.Mutex
	volumes   map[string]*types.Volume
	instances map[string]types.Instance

	// stuck が true の場合は接続が attaching のまま進まない
	stuck bool

	created  []*ec2.CreateVolumeInput
	attached []*ec2.AttachVolumeInput
	nextID   int
}

func newFakeEC2() *fakeEC2 {
	return &fakeEC2{
		volumes:   map[string]*types.Volume{},
		instances: map[string]types.Instance{},
	}
}

func (f *fakeEC2) addInstance(id, zone string, state types.InstanceStateName) {
	f.instances[id] = types.Instance{
		InstanceId: aws.String(id),
		Placement:  &types.Placement{AvailabilityZone: aws.String(zone)},
		State:      &types.InstanceState{Name: state},
	}
}

func (f *fakeEC2) addVolume(id, zone string, state types.VolumeState, created time.Time, tags map[string]string) *types.Volume {
	v := &types.Volume{
		VolumeId:         aws.String(id),
		AvailabilityZone: aws.String(zone),
		State:            state,
		Size:             aws.Int32(DefaultSizeGiB),
		CreateTime:       aws.Time(created),
	}
	for k, val := range tags {
		v.Tags = append(v.Tags, types.Tag{Key: aws.String(k), Value: aws.String(val)})
	}
	f.volumes[id] = v
	return v
}

func managedTags(env, name string) map[string]string {
	return map[string]string{TagEnv: env, TagName: name, TagManagedBy: ManagedByValue}
}

func (f *fakeEC2) DescribeVolumes(ctx context.Context, in *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := &ec2.DescribeVolumesOutput{}
	if len(in.VolumeIds) > 0 {
		for _, id := range in.VolumeIds {
			v, ok := f.volumes[id]
			if !ok {
				return nil, &smithy.GenericAPIError{Code: "InvalidVolume.NotFound", Message: "The volume '" + id + "' does not exist."}
			}
			out.Volumes = append(out.Volumes, *v)
			f.progress(v)
		}
		return out, nil
	}

	for _, v := range f.volumes {
		if matchFilters(*v, in.Filters) {
			out.Volumes = append(out.Volumes, *v)
		}
	}
	return out, nil
}

// progress は接続中のボリュームを次の参照で attached に進める
func (f *fakeEC2) progress(v *types.Volume) {
	if f.stuck {
		return
	}
	for i := range v.Attachments {
		if v.Attachments[i].State == types.VolumeAttachmentStateAttaching {
			v.Attachments[i].State = types.VolumeAttachmentStateAttached
		}
	}
}

func matchFilters(v types.Volume, filters []types.Filter) bool {
	for _, filter := range filters {
		name := aws.ToString(filter.Name)
		var got string
		switch {
		case strings.HasPrefix(name, "tag:"):
			key := strings.TrimPrefix(name, "tag:")
			for _, tag := range v.Tags {
				if aws.ToString(tag.Key) == key {
					got = aws.ToString(tag.Value)
				}
			}
		case name == "status":
			got = string(v.State)
		case name == "availability-zone":
			got = aws.ToString(v.AvailabilityZone)
		default:
			panic("unexpected filter " + name)
		}
		matched := false
		for _, want := range filter.Values {
			if got == want {
				matched = true
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var instances []types.Instance
	for _, id := range in.InstanceIds {
		i, ok := f.instances[id]
		if !ok {
			return nil, &smithy.GenericAPIError{Code: "InvalidInstanceID.Malformed", Message: "Invalid id: " + id}
		}
		instances = append(instances, i)
	}
	return &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{{Instances: instances}},
	}, nil
}

func (f *fakeEC2) CreateVolume(ctx context.Context, in *ec2.CreateVolumeInput, _ ...func(*ec2.Options)) (*ec2.CreateVolumeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, in)
	f.nextID++
	id := fmt.Sprintf("vol-new%013d", f.nextID)
	now := time.Date(2026, 1, 1, 0, 0, f.nextID, 0, time.UTC)

	v := &types.Volume{
		VolumeId:         aws.String(id),
		AvailabilityZone: in.AvailabilityZone,
		State:            types.VolumeStateCreating,
		Size:             in.Size,
		CreateTime:       aws.Time(now),
	}
	for _, spec := range in.TagSpecifications {
		v.Tags = append(v.Tags, spec.Tags...)
	}
	f.volumes[id] = v

	return &ec2.CreateVolumeOutput{
		VolumeId:         v.VolumeId,
		AvailabilityZone: v.AvailabilityZone,
		State:            v.State,
		Size:             v.Size,
		CreateTime:       v.CreateTime,
		Tags:             v.Tags,
	}, nil
}

func (f *fakeEC2) AttachVolume(ctx context.Context, in *ec2.AttachVolumeInput, _ ...func(*ec2.Options)) (*ec2.AttachVolumeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attached = append(f.attached, in)
	v, ok := f.volumes[aws.ToString(in.VolumeId)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "InvalidVolume.NotFound"}
	}
	v.State = types.VolumeStateInUse
	v.Attachments = append(v.Attachments, types.VolumeAttachment{
		InstanceId: in.InstanceId,
		Device:     in.Device,
		VolumeId:   in.VolumeId,
		State:      types.VolumeAttachmentStateAttaching,
	})
	return &ec2.AttachVolumeOutput{
		InstanceId: in.InstanceId,
		VolumeId:   in.VolumeId,
		Device:     in.Device,
		State:      types.VolumeAttachmentStateAttaching,
	}, nil
}

// fakeIdentity はインスタンスメタデータを模倣する
type fakeIdentity struct {
	doc imds.InstanceIdentityDocument
	err error
}

func (f fakeIdentity) GetInstanceIdentityDocument(ctx context.Context, _ *imds.GetInstanceIdentityDocumentInput, _ ...func(*imds.Options)) (*imds.GetInstanceIdentityDocumentOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &imds.GetInstanceIdentityDocumentOutput{InstanceIdentityDocument: f.doc}, nil
}
