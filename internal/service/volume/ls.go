package volume

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"volboot/internal/service/common"
)

// describeVolumes はページングしながらボリュームを取得する
func describeVolumes(ctx context.Context, client EC2API, input *ec2.DescribeVolumesInput) ([]Volume, error) {
	var volumes []Volume
	paginator := ec2.NewDescribeVolumesPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("EBSボリューム一覧の取得に失敗: %w", err)
		}
		for _, v := range page.Volumes {
			volumes = append(volumes, toVolume(v))
		}
	}
	return volumes, nil
}

// DescribeVolume はボリュームIDから1件取得する
func DescribeVolume(ctx context.Context, client EC2API, volumeId string) (Volume, error) {
	out, err := client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{VolumeIds: []string{volumeId}})
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidVolume.NotFound" {
		return Volume{}, fmt.Errorf("%w: %s", ErrVolumeNotFound, volumeId)
	}
	if err != nil {
		return Volume{}, fmt.Errorf("ボリューム %s の取得に失敗: %w", volumeId, err)
	}
	if len(out.Volumes) == 0 {
		return Volume{}, fmt.Errorf("%w: %s", ErrVolumeNotFound, volumeId)
	}
	return toVolume(out.Volumes[0]), nil
}

// toVolume はSDKの型を表示用の構造体に変換する
func toVolume(v types.Volume) Volume {
	vol := Volume{
		VolumeId:         aws.ToString(v.VolumeId),
		State:            string(v.State),
		AvailabilityZone: aws.ToString(v.AvailabilityZone),
		SizeGiB:          aws.ToInt32(v.Size),
		CreateTime:       aws.ToTime(v.CreateTime),
	}
	for _, tag := range v.Tags {
		switch aws.ToString(tag.Key) {
		case TagName:
			vol.Name = aws.ToString(tag.Value)
		case TagEnv:
			vol.Env = aws.ToString(tag.Value)
		}
	}
	for _, a := range v.Attachments {
		vol.Attachments = append(vol.Attachments, Attachment{
			InstanceId: aws.ToString(a.InstanceId),
			Device:     aws.ToString(a.Device),
			State:      string(a.State),
		})
	}
	return vol
}

// ListVolumes はvolbootが管理するボリューム一覧を取得する
// NamePattern はNameタグに対するワイルドカードまたは部分一致
func ListVolumes(ctx context.Context, client EC2API, opts ListOptions) ([]Volume, error) {
	volumes, err := describeVolumes(ctx, client, &ec2.DescribeVolumesInput{
		Filters: tagFilters(Spec{Env: opts.Env}),
	})
	if err != nil {
		return nil, err
	}

	if opts.NamePattern == "" {
		return volumes, nil
	}

	var filtered []Volume
	for _, v := range volumes {
		if common.MatchPattern(v.Name, opts.NamePattern) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// DisplayVolumes はボリューム一覧をテーブル形式で表示する
func DisplayVolumes(volumes []Volume, opts ListOptions) {
	var filters []string
	if opts.Env != "" {
		filters = append(filters, opts.Env+"環境の")
	}
	if opts.NamePattern != "" {
		filters = append(filters, fmt.Sprintf("名前が '%s' に一致する", opts.NamePattern))
	}

	common.DisplayList(volumes, "EBSボリューム", func(items []Volume) ([]common.TableColumn, [][]string) {
		columns := []common.TableColumn{
			{Header: "ボリュームID"},
			{Header: "名前"},
			{Header: "環境"},
			{Header: "状態"},
			{Header: "AZ"},
			{Header: "サイズ"},
			{Header: "接続先"},
			{Header: "作成日時"},
		}
		data := make([][]string, len(items))
		for i, v := range items {
			attached := ""
			if len(v.Attachments) > 0 {
				attached = v.Attachments[0].InstanceId
			}
			data[i] = []string{
				v.VolumeId,
				common.OrDash(v.Name),
				common.OrDash(v.Env),
				v.State,
				v.AvailabilityZone,
				common.FormatGiB(v.SizeGiB),
				common.OrDash(attached),
				common.FormatTime(v.CreateTime),
			}
		}
		return columns, data
	}, &common.DisplayOptions{
		ShowCount:      true,
		EmptyMessage:   "volbootが管理するEBSボリュームが見つかりませんでした",
		FilterMessages: filters,
	})
}
