package volume

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"volboot/internal/service/cfn"
)

// InstanceFromMetadata はインスタンスメタデータから自身のインスタンスIDとAZを取得する
func InstanceFromMetadata(ctx context.Context, client IdentityAPI) (Identity, error) {
	out, err := client.GetInstanceIdentityDocument(ctx, &imds.GetInstanceIdentityDocumentInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("インスタンスメタデータの取得に失敗: %w", err)
	}
	if out.InstanceID == "" {
		return Identity{}, fmt.Errorf("%w: インスタンスメタデータにインスタンスIDがありません", ErrInstanceNotFound)
	}
	return Identity{
		InstanceId:       out.InstanceID,
		AvailabilityZone: out.AvailabilityZone,
		Region:           out.Region,
	}, nil
}

// InstanceFromStack はCloudFormationスタックから接続先のインスタンスIDを取得する
func InstanceFromStack(ctx context.Context, client cfn.StackResourcesAPI, stackName string) (string, error) {
	instanceId, err := cfn.GetEc2FromStack(ctx, client, stackName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstanceNotFound, err)
	}
	return instanceId, nil
}

// InstanceZone はインスタンスのアベイラビリティゾーンを取得する
func InstanceZone(ctx context.Context, client EC2API, instanceId string) (string, error) {
	out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceId}})
	if err != nil {
		return "", fmt.Errorf("インスタンス %s の取得に失敗: %w", instanceId, err)
	}
	for _, r := range out.Reservations {
		for _, i := range r.Instances {
			if i.Placement != nil && i.Placement.AvailabilityZone != nil {
				return aws.ToString(i.Placement.AvailabilityZone), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceId)
}
