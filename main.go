package main

import (
	"fmt"
	"log"
	"os"

	"github.com/decker502/yarnview/internal/script"
	"github.com/decker502/yarnview/pkg/app"
	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

// run 命令参数
var (
	scriptFlag  string
	nodeFlag    string
	configFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "yarnview",
	Short: "Scrolling-log dialogue view for Ebitengine",
	Long:  "yarnview runs a YAML dialogue script inside a scrolling log panel with clickable options.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDialogue()
	},
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and run a dialogue script",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDialogue()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <files...>",
	Short: "Check dialogue scripts for syntax errors and broken jumps",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			data, err := embedded.ReadFileOrDisk(path)
			if err == nil {
				var s *script.Script
				if s, err = script.ParseScript(data); err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "OK: %s - Start=%s, Nodes=%d\n", path, s.Start, len(s.Nodes))
					continue
				}
			}
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL: %s - %v\n", path, err)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d script(s) failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().StringVar(&scriptFlag, "script", config.DefaultScriptPath, "dialogue script (disk path or embedded data/ path)")
		cmd.Flags().StringVar(&nodeFlag, "node", config.DefaultStartNode, "node to start the dialogue at")
		cmd.Flags().StringVar(&configFlag, "config", config.DefaultDialogueViewConfigPath, "dialogue view config")
		cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

// runDialogue 创建应用并进入 Ebitengine 主循环
func runDialogue() error {
	gameApp, err := app.NewApp(app.Config{
		Verbose:    verboseFlag,
		ScriptPath: scriptFlag,
		StartNode:  nodeFlag,
		ConfigPath: configFlag,
	})
	if err != nil {
		return fmt.Errorf("初始化失败: %w", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("yarnview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	// 主循环直到窗口关闭或对话出错
	if err := ebiten.RunGame(gameApp); err != nil {
		return err
	}
	log.Printf("[Main] Window closed")
	return nil
}

func main() {
	// 初始化嵌入资源，必须在任何资源加载之前
	embedded.Init(dataFS)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
