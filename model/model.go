package model

// 几何设定
// 1. 区域为 10cm x 10cm 的方形区域，按 factor 缩放
// 2. 网格共 10*factor 行，10*factor+1 列（M 个划分对应 M+1 个点）
// 3. 两块极板位于 2*factor 列和 8*factor 列，跨越 [2*factor, 8*factor) 行

const (
	GridUnit  = 10 // 未缩放时的网格划分数
	PlateLow  = 2  // 极板起始位置（行）以及左极板所在列
	PlateHigh = 8  // 极板结束位置（行，不含）以及右极板所在列
)

// 消息类型
const (
	MsgSolve    = "solve"
	MsgProgress = "progress"
	MsgResult   = "result"
	MsgError    = "error"
)

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 求解请求，未给出的字段使用服务端配置
type SolveRequest struct {
	Factor    int     `json:"factor"`
	V1        float64 `json:"v1"`
	V2        float64 `json:"v2"`
	Boundary  float64 `json:"boundary"`
	Method    string  `json:"method"`
	Omega     float64 `json:"omega"`
	Tolerance float64 `json:"tolerance"`
	MaxSweeps int     `json:"max_sweeps"`
}

// 迭代进度推送
type ProgressData struct {
	Sweep int     `json:"sweep"`
	Delta float64 `json:"delta"`
}

// 求解结果推送
type SolveResponse struct {
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	Method    string      `json:"method"`
	Sweeps    int         `json:"sweeps"`
	Delta     float64     `json:"delta"`
	Converged bool        `json:"converged"`
	Field     [][]float64 `json:"field"`
}
