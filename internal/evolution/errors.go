package evolution

import "errors"

var (
	// 数据一致性错误：出现即终止本次运行
	ErrMissingEdge  = errors.New("图中缺少所需的边")
	ErrCityNotFound = errors.New("无法在路线中找到城市")

	// 配置错误：在运行开始前检测
	ErrInvalidParameters = errors.New("无效的参数")

	ErrInvalidGraph    = errors.New("无效的代价图")
	ErrEmptyPopulation = errors.New("种群为空")
)
