package config

// SafeErrorMessage 根据运行模式决定错误信息的暴露程度：
// release 模式下只返回 fallback，避免把内部错误细节泄露给客户端；
// 其他模式（含未初始化配置的开发场景）返回原始错误信息，方便调试。
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
