package steam

// 线性插值
func linearInterp(x, x0, y0, x1, y1 float64) float64 {
	if x == x0 || x0 == x1 {
		return y0
	}
	if x == x1 {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// 二分查找 x 所在区间 [xs[i], xs[i+1]]，xs 严格递增且 xs[0] <= x <= xs[n-1]
// exact 表示 x 恰好落在断点 xs[i] 上，此时 i 可能为 n-1
func bracket(xs []float64, x float64) (i int, exact bool) {
	left, right := 0, len(xs)-1
	for left < right {
		m := left + (right-left+1)>>1
		if xs[m] <= x {
			left = m
		} else {
			right = m - 1
		}
	}
	if xs[left] == x {
		return left, true
	}
	if left+1 >= len(xs) {
		left = len(xs) - 2
	}
	return left, false
}

// 饱和两相混合物性, x = 0 与 x = 1 时精确返回端点值
func Mix(f, g, x float64) float64 {
	return (1-x)*f + x*g
}
