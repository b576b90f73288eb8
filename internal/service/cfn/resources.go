package cfn

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// StackResourcesAPI はスタックリソース取得に使うCloudFormation APIのサブセット
type StackResourcesAPI interface {
	DescribeStackResources(ctx context.Context, params *cloudformation.DescribeStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourcesOutput, error)
}

// GetStackResources はスタックからリソース一覧を取得する関数
func GetStackResources(ctx context.Context, cfnClient StackResourcesAPI, stackName string) ([]types.StackResource, error) {
	// スタックからリソースを取得
	fmt.Printf("🔍 スタック '%s' からリソースを検索中...\n", stackName)
	resp, err := cfnClient.DescribeStackResources(ctx, &cloudformation.DescribeStackResourcesInput{
		StackName: awssdk.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("CloudFormationスタックのリソース取得に失敗: %w", err)
	}

	// スタック存在確認
	if len(resp.StackResources) == 0 {
		return nil, fmt.Errorf("スタック '%s' にリソースが見つかりませんでした", stackName)
	}

	return resp.StackResources, nil
}

// GetEc2FromStack はCloudFormationスタックからEC2インスタンスIDを1つ取得します
// ボリュームの接続先を曖昧にしないため、複数ある場合はエラーにします
func GetEc2FromStack(ctx context.Context, cfnClient StackResourcesAPI, stackName string) (string, error) {
	allInstances, err := GetAllEc2FromStack(ctx, cfnClient, stackName)
	if err != nil {
		return "", err
	}

	switch len(allInstances) {
	case 0:
		return "", fmt.Errorf("スタック '%s' にEC2インスタンスが見つかりませんでした", stackName)
	case 1:
		return allInstances[0], nil
	default:
		return "", fmt.Errorf("スタック '%s' にEC2インスタンスが%d台あります。-i でインスタンスIDを指定してください", stackName, len(allInstances))
	}
}

// GetAllEc2FromStack はCloudFormationスタックからすべてのEC2インスタンス識別子を取得します
func GetAllEc2FromStack(ctx context.Context, cfnClient StackResourcesAPI, stackName string) ([]string, error) {
	// 共通関数を使用してスタックリソースを取得
	stackResources, err := GetStackResources(ctx, cfnClient, stackName)
	if err != nil {
		return nil, err
	}

	var instanceIds []string
	for _, resource := range stackResources {
		if awssdk.ToString(resource.ResourceType) == "AWS::EC2::Instance" && resource.PhysicalResourceId != nil {
			instanceIds = append(instanceIds, *resource.PhysicalResourceId)
			fmt.Printf("🔍 検出されたEC2インスタンス: %s\n", *resource.PhysicalResourceId)
		}
	}

	return instanceIds, nil
}
