package calculator

// 迭代进度
type Progress struct {
	Sweep int
	Delta float64
}

// CalcHub 计算过程与推送之间的通道
// 推送不阻塞计算，缓冲区满时丢弃本次进度
type CalcHub struct {
	progress chan Progress
	dropped  int
}

func NewCalcHub(buffer int) *CalcHub {
	if buffer < 1 {
		buffer = 1
	}
	return &CalcHub{
		progress: make(chan Progress, buffer),
	}
}

func (ch *CalcHub) PushProgress(p Progress) {
	select {
	case ch.progress <- p:
	default:
		ch.dropped++
	}
}

func (ch *CalcHub) Progress() <-chan Progress {
	return ch.progress
}

// Close 计算结束后由调用方关闭，之后不能再推送
func (ch *CalcHub) Close() {
	close(ch.progress)
}

// Dropped 只能在 Close 之后读取
func (ch *CalcHub) Dropped() int {
	return ch.dropped
}
