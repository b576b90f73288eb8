package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"volboot/internal/aws"
)

// AppName はコマンド名
const AppName = "volboot"

var region string
var profile string
var stackName string
var deployEnv string
var debug bool

var (
	awsCtx     aws.Context
	awsClients *aws.Clients
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   AppName,
	Short: "EBSデータボリュームの解決とマウントを行うCLIツール",
	Long: `EC2インスタンス起動時にEBSデータボリュームをシリアル番号で特定し、
必要な場合だけフォーマットして /etc/fstab 経由で永続的にマウントします。

AWS側では環境ごとのポリシーに従ってボリュームを作成・検索し、
インスタンスへの接続とParameter StoreへのボリュームID登録を行います。`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := RootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&region, "region", "R", "", "AWSリージョン（未指定の場合はプロファイルまたはインスタンスメタデータの設定）")
	RootCmd.PersistentFlags().StringVarP(&profile, "profile", "P", "", "AWSプロファイル")
	RootCmd.PersistentFlags().StringVarP(&deployEnv, "env", "e", "", "デプロイ環境 (dev または prod)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "デバッグログを出力する")

	// コマンド実行前に共通でプロファイルチェックとAWS設定の読み込みを行う
	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogger()

		// AWSを使わないコマンドの場合はスキップ
		if !needsAws(cmd) {
			return nil
		}
		if err := checkAndSetProfile(cmd); err != nil {
			return err
		}
		return loadAwsConfig(cmd)
	}
}

// needsAws はコマンドがAWS認証を必要とするかを判定する
// mount は --param 指定時のみ自身で設定を読み込むため対象外
func needsAws(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "env", "mount", "completion":
			return false
		}
	}
	return true
}

// setupLogger はログレベルと出力形式を設定する
func setupLogger() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// checkAndSetProfile はプロファイルの確認と設定を行うプライベート関数
func checkAndSetProfile(cmd *cobra.Command) error {
	// プロファイルがすでに指定されている場合は何もしない
	if profile != "" {
		return nil
	}
	// 環境変数からプロファイル取得を試みる
	envProfile := os.Getenv("AWS_PROFILE")
	if envProfile == "" {
		// プロファイルが見つからない場合はエラー
		cmd.SilenceUsage = true // エラー時のUsage表示を抑制
		return errors.New("❌ エラー: プロファイルが指定されていません。-Pオプションまたは AWS_PROFILE 環境変数を指定してください")
	}
	// 環境変数からプロファイルを設定
	profile = envProfile
	cmd.Println("🔍 環境変数 AWS_PROFILE の値 '" + profile + "' を使用します")
	return nil
}

// loadAwsConfig はAWS設定を読み込み、クライアント管理構造体を初期化する
func loadAwsConfig(cmd *cobra.Command) error {
	awsCtx = aws.Context{Region: region, Profile: profile}
	clients, err := aws.NewAwsClients(cmd.Context(), awsCtx)
	if err != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("❌ AWS設定の読み込みエラー: %w", err)
	}
	awsClients = clients
	return nil
}
