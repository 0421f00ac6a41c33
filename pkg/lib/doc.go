// Package lib 包含与分发语义无关的基础设施工具库
//
//   - log: 基于 slog 的组件日志封装
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 分发器与观察者的公共接口
//   - channel/: 单一事件类型的监听器通道
//   - metrics/: Prometheus 观察者
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import "github.com/pparuzel/courier/pkg/lib/log"
//
//	var logger = log.Logger("courier/mycomponent")
package lib
