// Package interfaces 定义 courier 的公共接口
//
// 接口文件：
//   - dispatcher.go     - Dispatcher 与 Observer
//
// 具体实现：
//   - 根包 courier      - 静态（声明式）分发器
//   - pkg/metrics       - 基于 Prometheus 的 Observer
package interfaces
