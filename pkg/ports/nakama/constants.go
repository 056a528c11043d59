package nakama

const (
	// RpcSubmitReward 客户端跨过奖励阈值后调用，为当前用户钱包增加 DinoPoints
	RpcSubmitReward = "dinoflap_submit_reward"

	// RpcSubmitRun 一局结束后调用，记录最佳成绩
	RpcSubmitRun = "dinoflap_submit_run"

	// WalletCurrency 钱包中 DinoPoints 的键
	WalletCurrency = "dinopoints"

	// BestScoreMetadataKey 账户 metadata 中保存最佳成绩的键
	BestScoreMetadataKey = "dinoflap_best"

	// 错误码（gRPC 语义）
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)
