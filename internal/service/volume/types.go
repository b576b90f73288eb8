package volume

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// タグキー
const (
	TagName      = "Name"
	TagEnv       = "Env"
	TagManagedBy = "ManagedBy"

	ManagedByValue = "volboot"
)

// デフォルト値
const (
	DefaultName         = "data"
	DefaultSizeGiB      = int32(20)
	DefaultVolumeType   = types.VolumeTypeGp3
	DefaultDeviceName   = "/dev/sdf"
	DefaultAttachWait   = 5 * time.Minute
	DefaultPollInterval = 5 * time.Second
)

var (
	ErrUnknownEnv        = errors.New("サポートされていない環境です")
	ErrVolumeNotFound    = errors.New("ボリュームが見つかりません")
	ErrInstanceNotFound  = errors.New("EC2インスタンスが見つかりません")
	ErrAttachedElsewhere = errors.New("ボリュームは別のインスタンスに接続されています")
	ErrAvailabilityZone  = errors.New("ボリュームとインスタンスのアベイラビリティゾーンが異なります")
	ErrAttachTimeout     = errors.New("ボリュームの接続がタイムアウトしました")
	ErrZoneRequired      = errors.New("ボリュームを作成するにはアベイラビリティゾーンの指定が必要です")
)

// EC2API はvolumeパッケージが使うEC2 APIのサブセット
type EC2API interface {
	ec2.DescribeVolumesAPIClient
	ec2.DescribeInstancesAPIClient
	CreateVolume(ctx context.Context, params *ec2.CreateVolumeInput, optFns ...func(*ec2.Options)) (*ec2.CreateVolumeOutput, error)
	AttachVolume(ctx context.Context, params *ec2.AttachVolumeInput, optFns ...func(*ec2.Options)) (*ec2.AttachVolumeOutput, error)
}

// IdentityAPI はインスタンスメタデータから自身の情報を取得するAPI
type IdentityAPI interface {
	GetInstanceIdentityDocument(ctx context.Context, params *imds.GetInstanceIdentityDocumentInput, optFns ...func(*imds.Options)) (*imds.GetInstanceIdentityDocumentOutput, error)
}

// Volume はEBSボリュームの情報を格納する構造体
type Volume struct {
	VolumeId         string
	Name             string
	Env              string
	State            string
	AvailabilityZone string
	SizeGiB          int32
	CreateTime       time.Time
	Attachments      []Attachment
}

// Attachment はボリュームの接続情報
type Attachment struct {
	InstanceId string
	Device     string
	State      string
}

// AttachedTo は指定インスタンスへの接続情報を返す
func (v Volume) AttachedTo(instanceId string) (Attachment, bool) {
	for _, a := range v.Attachments {
		if a.InstanceId == instanceId {
			return a, true
		}
	}
	return Attachment{}, false
}

// Spec は解決・作成するボリュームの条件
type Spec struct {
	Env              string
	Name             string
	AvailabilityZone string
	SizeGiB          int32
	VolumeType       types.VolumeType
	KmsKeyId         string
}

// CheckAndSetDefaults は条件を検証し、未指定の項目にデフォルト値を設定する
func (s *Spec) CheckAndSetDefaults() error {
	if _, err := ParseEnv(s.Env); err != nil {
		return err
	}
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.SizeGiB <= 0 {
		s.SizeGiB = DefaultSizeGiB
	}
	if s.VolumeType == "" {
		s.VolumeType = DefaultVolumeType
	}
	return nil
}

// Resolution はポリシーによる解決結果
type Resolution struct {
	Volume  Volume
	Created bool
}

// AttachOptions はボリューム接続のパラメータ
type AttachOptions struct {
	VolumeId     string
	InstanceId   string
	DeviceName   string
	Timeout      time.Duration
	PollInterval time.Duration
	// Progress が true の場合は待機中にスピナーを表示する
	Progress bool
}

// AttachResult はボリューム接続の結果
type AttachResult struct {
	VolumeId         string
	InstanceId       string
	Device           string
	AvailabilityZone string
	AlreadyAttached  bool
}

// ListOptions はボリューム一覧のフィルタ条件
type ListOptions struct {
	Env         string
	NamePattern string
}

// Identity はインスタンスメタデータから得た自身の情報
type Identity struct {
	InstanceId       string
	AvailabilityZone string
	Region           string
}
