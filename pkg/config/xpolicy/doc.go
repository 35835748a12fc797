// Package xpolicy 提供退避策略的声明式配置。
//
// # 设计理念
//
// 退避参数（初始间隔、倍率、时间预算）属于运维关心的调优项，
// 不应硬编码在业务代码里。xpolicy 基于 koanf 从 YAML/JSON 文件
// 加载策略声明，构建 [xbackoff.BackOff] 工厂，并支持通过 fsnotify
// 监视文件变更热更新，适合 K8s ConfigMap 挂载场景。
//
// # 策略声明
//
// 一份策略声明由 kind 和对应参数组成：
//
//	kind: exponential
//	initial_interval: 200ms
//	randomization_factor: 0.5
//	multiplier: 2.0
//	max_interval: 30s
//	max_elapsed_time: 5m
//
// 支持的 kind：exponential、constant、fixed、zero、stop。
// 未填写的参数使用各策略的默认值。
//
// # 使用方式
//
//	store, err := xpolicy.New("/etc/app/retry.yaml")
//	if err != nil {
//	    return err
//	}
//	retryer := xretry.NewRetryer(xretry.WithBackOffFactory(store.Factory()))
//
// Store 并发安全：Factory 返回的工厂总是基于最新一次成功加载的
// 声明构建策略，热更新后新的 Do 调用自动采用新参数。
package xpolicy
