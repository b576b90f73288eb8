package volume

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Env はデプロイ環境
type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

// ParseEnv は環境名を検証する
func ParseEnv(s string) (Env, error) {
	switch Env(s) {
	case EnvDev, EnvProd:
		return Env(s), nil
	default:
		return "", fmt.Errorf("%w: '%s'（dev または prod を指定してください）", ErrUnknownEnv, s)
	}
}

// Policy はボリュームのライフサイクル方針
// 起動時に環境から一度だけ決定し、以降の処理は環境名で分岐しない
type Policy interface {
	// Name はポリシー名を返す
	Name() string
	// Resolve は条件に合うボリュームを返す（必要なら作成する）
	Resolve(ctx context.Context, client EC2API, spec Spec) (Resolution, error)
}

// PolicyFor は環境に対応するポリシーを返す
// dev は毎回新規作成、prod は既存ボリュームを検索して再利用する
func PolicyFor(env string) (Policy, error) {
	e, err := ParseEnv(env)
	if err != nil {
		return nil, err
	}
	if e == EnvProd {
		return LookupPolicy{}, nil
	}
	return CreatePolicy{}, nil
}

// CreatePolicy は常に新しいボリュームを作成する
type CreatePolicy struct{}

// Name はポリシー名を返す
func (CreatePolicy) Name() string { return "create" }

// Resolve は新しいボリュームを作成する
func (CreatePolicy) Resolve(ctx context.Context, client EC2API, spec Spec) (Resolution, error) {
	if err := spec.CheckAndSetDefaults(); err != nil {
		return Resolution{}, err
	}
	v, err := createVolume(ctx, client, spec)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Volume: v, Created: true}, nil
}

// LookupPolicy はタグで既存ボリュームを検索し、なければ作成する
type LookupPolicy struct{}

// Name はポリシー名を返す
func (LookupPolicy) Name() string { return "lookup" }

// Resolve は既存ボリュームを返す。複数ある場合は最も古いものを使う
func (LookupPolicy) Resolve(ctx context.Context, client EC2API, spec Spec) (Resolution, error) {
	if err := spec.CheckAndSetDefaults(); err != nil {
		return Resolution{}, err
	}

	volumes, err := FindVolumes(ctx, client, spec)
	if err != nil {
		return Resolution{}, err
	}

	if len(volumes) > 0 {
		sort.SliceStable(volumes, func(i, j int) bool {
			return volumes[i].CreateTime.Before(volumes[j].CreateTime)
		})
		if len(volumes) > 1 {
			fmt.Printf("⚠️  条件に一致するボリュームが%d件あります。最も古い %s を使用します\n",
				len(volumes), volumes[0].VolumeId)
		}
		fmt.Printf("🔍 既存のボリューム %s を使用します\n", volumes[0].VolumeId)
		return Resolution{Volume: volumes[0]}, nil
	}

	fmt.Println("🔍 既存のボリュームが見つからないため新規作成します")
	v, err := createVolume(ctx, client, spec)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Volume: v, Created: true}, nil
}

// tagFilters はSpecからタグ・AZのフィルタを組み立てる
func tagFilters(spec Spec) []types.Filter {
	filters := []types.Filter{
		{Name: aws.String("tag:" + TagManagedBy), Values: []string{ManagedByValue}},
	}
	if spec.Env != "" {
		filters = append(filters, types.Filter{Name: aws.String("tag:" + TagEnv), Values: []string{spec.Env}})
	}
	if spec.Name != "" {
		filters = append(filters, types.Filter{Name: aws.String("tag:" + TagName), Values: []string{spec.Name}})
	}
	if spec.AvailabilityZone != "" {
		filters = append(filters, types.Filter{Name: aws.String("availability-zone"), Values: []string{spec.AvailabilityZone}})
	}
	return filters
}

// FindVolumes は条件に一致する利用可能または使用中のボリュームを検索する
func FindVolumes(ctx context.Context, client EC2API, spec Spec) ([]Volume, error) {
	filters := append(tagFilters(spec), types.Filter{
		Name:   aws.String("status"),
		Values: []string{string(types.VolumeStateAvailable), string(types.VolumeStateInUse)},
	})
	return describeVolumes(ctx, client, &ec2.DescribeVolumesInput{Filters: filters})
}

// createVolume はタグ付きのボリュームを作成する
func createVolume(ctx context.Context, client EC2API, spec Spec) (Volume, error) {
	if spec.AvailabilityZone == "" {
		return Volume{}, ErrZoneRequired
	}

	input := &ec2.CreateVolumeInput{
		AvailabilityZone: aws.String(spec.AvailabilityZone),
		Size:             aws.Int32(spec.SizeGiB),
		VolumeType:       spec.VolumeType,
		Encrypted:        aws.Bool(true),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeVolume,
			Tags: []types.Tag{
				{Key: aws.String(TagName), Value: aws.String(spec.Name)},
				{Key: aws.String(TagEnv), Value: aws.String(spec.Env)},
				{Key: aws.String(TagManagedBy), Value: aws.String(ManagedByValue)},
			},
		}},
	}
	if spec.KmsKeyId != "" {
		input.KmsKeyId = aws.String(spec.KmsKeyId)
	}

	out, err := client.CreateVolume(ctx, input)
	if err != nil {
		return Volume{}, fmt.Errorf("EBSボリュームの作成に失敗: %w", err)
	}

	fmt.Printf("💾 EBSボリューム %s を作成しました (%s, %d GiB)\n",
		aws.ToString(out.VolumeId), spec.AvailabilityZone, spec.SizeGiB)

	return Volume{
		VolumeId:         aws.ToString(out.VolumeId),
		Name:             spec.Name,
		Env:              spec.Env,
		State:            string(out.State),
		AvailabilityZone: aws.ToString(out.AvailabilityZone),
		SizeGiB:          aws.ToInt32(out.Size),
		CreateTime:       aws.ToTime(out.CreateTime),
	}, nil
}
