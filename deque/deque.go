/**
 *
 * 利用数组实现的有界双端队列，元素类型为 float64
 * 主要用于保存迭代过程中最近若干轮的最大变化量（残差历史），
 * 满了以后从尾部加入新元素时会覆盖头部最旧的元素
 *
 */

package deque
