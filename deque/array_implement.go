package deque

import "errors"

var ErrEmpty = errors.New("deque: empty")

// 环形数组，start 为队头在数组中的位置
type ArrDeque struct {
	arr []float64

	start int
	// 元素个数
	size int
	// 容量
	capacity int
}

// 工厂方法
func NewArrDeque(capacity int) *ArrDeque {
	if capacity < 1 {
		capacity = 1
	}
	return &ArrDeque{
		arr:      make([]float64, capacity),
		capacity: capacity,
	}
}

func (ad *ArrDeque) Size() int {
	return ad.size
}

// 逻辑下标转换为数组下标
func (ad *ArrDeque) index(i int) int {
	if i < 0 || i >= ad.size {
		panic("index out of length")
	}
	return (ad.start + i) % ad.capacity
}

func (ad *ArrDeque) Get(i int) float64 {
	return ad.arr[ad.index(i)]
}

// AddLast 队列满时覆盖队头元素
func (ad *ArrDeque) AddLast(v float64) {
	if ad.IsFull() {
		ad.arr[ad.start] = v
		ad.start = (ad.start + 1) % ad.capacity
		return
	}
	ad.arr[(ad.start+ad.size)%ad.capacity] = v
	ad.size++
}

func (ad *ArrDeque) RemoveFirst() float64 {
	if ad.IsEmpty() {
		panic(ErrEmpty)
	}
	v := ad.arr[ad.start]
	ad.start = (ad.start + 1) % ad.capacity
	ad.size--
	return v
}

// Values 按从头到尾的顺序拷贝出所有元素
func (ad *ArrDeque) Values() []float64 {
	res := make([]float64, ad.size)
	for i := range res {
		res[i] = ad.arr[(ad.start+i)%ad.capacity]
	}
	return res
}

func (ad *ArrDeque) IsFull() bool {
	return ad.size == ad.capacity
}

func (ad *ArrDeque) IsEmpty() bool {
	return ad.size == 0
}
