package calculator

import (
	"fmt"
	"strings"
)

type Method int

const (
	Jacobi Method = iota
	GaussSeidel
	SOR
)

func (m Method) String() string {
	switch m {
	case Jacobi:
		return "jacobi"
	case GaussSeidel:
		return "gauss-seidel"
	case SOR:
		return "sor"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod 解析配置文件或请求中的方法名
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jacobi":
		return Jacobi, nil
	case "gauss-seidel", "gauss_seidel", "gaussseidel", "gs":
		return GaussSeidel, nil
	case "sor":
		return SOR, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownMethod)
}

// Policy 单点更新规则，Omega 仅对 GaussSeidel 和 SOR 有效
//
//	Jacobi:      next = 0.25*sum                    读上一轮，双缓冲
//	GaussSeidel: f    = (1+ω)*0.25*sum - ω*f        原地更新
//	SOR:         next = (1+ω)*0.25*sum - ω*cur      读上一轮，双缓冲
//
// ω 不做校验，SOR 在该网格上对常用的 ω 会发散
type Policy struct {
	Method Method
	Omega  float64
}

func JacobiPolicy() Policy {
	return Policy{Method: Jacobi}
}

func GaussSeidelPolicy(omega float64) Policy {
	return Policy{Method: GaussSeidel, Omega: omega}
}

func SORPolicy(omega float64) Policy {
	return Policy{Method: SOR, Omega: omega}
}

// doubleBuffered Jacobi 和 SOR 只读取上一轮的值
func (p Policy) doubleBuffered() bool {
	return p.Method != GaussSeidel
}

func (p Policy) String() string {
	if p.Method == Jacobi {
		return p.Method.String()
	}
	return fmt.Sprintf("%s(omega=%g)", p.Method, p.Omega)
}
