package volume

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/schollz/progressbar/v3"
)

// CheckAndSetDefaults は接続パラメータを検証し、未指定の項目にデフォルト値を設定する
func (o *AttachOptions) CheckAndSetDefaults() error {
	if o.VolumeId == "" {
		return errors.New("ボリュームIDが指定されていません")
	}
	if o.InstanceId == "" {
		return errors.New("インスタンスIDが指定されていません")
	}
	if o.DeviceName == "" {
		o.DeviceName = DefaultDeviceName
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultAttachWait
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return nil
}

// Attach はボリュームをインスタンスに接続する
// 以下の順で前提条件を確認してから接続し、接続完了まで待機する
//  1. インスタンスが running
//  2. ボリュームが available（既にこのインスタンスに接続済みなら何もしない）
//  3. ボリュームとインスタンスのAZが一致
func Attach(ctx context.Context, client EC2API, opts AttachOptions) (AttachResult, error) {
	if err := opts.CheckAndSetDefaults(); err != nil {
		return AttachResult{}, err
	}

	result := AttachResult{
		VolumeId:   opts.VolumeId,
		InstanceId: opts.InstanceId,
		Device:     opts.DeviceName,
	}

	fmt.Printf("⏳ インスタンス %s が起動するまで待機しています...\n", opts.InstanceId)
	instanceZone, err := waitInstanceRunning(ctx, client, opts.InstanceId, opts.Timeout)
	if err != nil {
		return result, err
	}

	vol, err := DescribeVolume(ctx, client, opts.VolumeId)
	if err != nil {
		return result, err
	}
	result.AvailabilityZone = vol.AvailabilityZone

	if a, ok := vol.AttachedTo(opts.InstanceId); ok {
		fmt.Printf("✅ ボリューム %s は既にインスタンス %s に接続されています (%s)\n",
			vol.VolumeId, opts.InstanceId, a.Device)
		result.Device = a.Device
		result.AlreadyAttached = true
		return result, nil
	}
	if len(vol.Attachments) > 0 {
		return result, fmt.Errorf("%w: %s -> %s", ErrAttachedElsewhere, vol.VolumeId, vol.Attachments[0].InstanceId)
	}

	if vol.State != string(types.VolumeStateAvailable) {
		fmt.Printf("⏳ ボリューム %s が利用可能になるまで待機しています...\n", vol.VolumeId)
		waiter := ec2.NewVolumeAvailableWaiter(client)
		err = waiter.Wait(ctx, &ec2.DescribeVolumesInput{VolumeIds: []string{vol.VolumeId}}, opts.Timeout)
		if err != nil {
			return result, fmt.Errorf("ボリューム %s の待機に失敗: %w", vol.VolumeId, err)
		}
	}

	if vol.AvailabilityZone != instanceZone {
		return result, fmt.Errorf("%w: ボリューム=%s, インスタンス=%s", ErrAvailabilityZone, vol.AvailabilityZone, instanceZone)
	}

	_, err = client.AttachVolume(ctx, &ec2.AttachVolumeInput{
		VolumeId:   aws.String(opts.VolumeId),
		InstanceId: aws.String(opts.InstanceId),
		Device:     aws.String(opts.DeviceName),
	})
	if err != nil {
		return result, fmt.Errorf("ボリューム %s の接続に失敗: %w", opts.VolumeId, err)
	}

	fmt.Printf("🔄 ボリューム %s を %s として接続しています...\n", opts.VolumeId, opts.DeviceName)
	if err := waitAttached(ctx, client, opts); err != nil {
		return result, err
	}

	fmt.Printf("✅ ボリューム %s をインスタンス %s に接続しました\n", opts.VolumeId, opts.InstanceId)
	return result, nil
}

// waitInstanceRunning はインスタンスが running になるまで待機し、AZを返す
func waitInstanceRunning(ctx context.Context, client EC2API, instanceId string, timeout time.Duration) (string, error) {
	waiter := ec2.NewInstanceRunningWaiter(client)
	out, err := waiter.WaitForOutput(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceId}}, timeout)
	if err != nil {
		return "", fmt.Errorf("インスタンス %s の起動待機に失敗: %w", instanceId, err)
	}

	for _, r := range out.Reservations {
		for _, i := range r.Instances {
			if aws.ToString(i.InstanceId) == instanceId && i.Placement != nil {
				return aws.ToString(i.Placement.AvailabilityZone), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceId)
}

// waitAttached は指定インスタンスへの接続が attached になるまでポーリングする
func waitAttached(ctx context.Context, client EC2API, opts AttachOptions) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("接続待機中..."),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	} else {
		bar = progressbar.DefaultSilent(-1)
	}
	defer func() { _ = bar.Finish() }()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s (%s)", ErrAttachTimeout, opts.VolumeId, opts.Timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}

		vol, err := DescribeVolume(ctx, client, opts.VolumeId)
		if err != nil {
			return err
		}
		_ = bar.Add(1)

		a, ok := vol.AttachedTo(opts.InstanceId)
		if !ok {
			continue
		}
		switch types.VolumeAttachmentState(a.State) {
		case types.VolumeAttachmentStateAttached:
			fmt.Println()
			return nil
		case types.VolumeAttachmentStateDetaching, types.VolumeAttachmentStateDetached:
			return fmt.Errorf("ボリューム %s の接続が中断されました (状態: %s)", opts.VolumeId, a.State)
		}
	}
}
