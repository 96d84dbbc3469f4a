// Package target selects the runtime that call sites without an explicit
// runtime dispatch to. The choice is made at build time:
//
//	(no tag)      runtime.BlackBox
//	quartz_mock   mock.Default()
//	quartz_host   runtime.HostRuntime over the host passed to InstallHost
package target
