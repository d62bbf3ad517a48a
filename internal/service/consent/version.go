package consent

import (
	"strconv"
	"strings"
)

// CompareVersions сравнивает две семантические версии покомпонентно
// (major.minor.patch, числовое сравнение слева направо). Отсутствующие
// хвостовые компоненты считаются нулями. Возвращает -1, 0 или 1.
func CompareVersions(a, b string) int {
	partsA := strings.Split(a, ".")
	partsB := strings.Split(b, ".")

	n := len(partsA)
	if len(partsB) > n {
		n = len(partsB)
	}

	for i := 0; i < n; i++ {
		numA := versionPart(partsA, i)
		numB := versionPart(partsB, i)
		if numA < numB {
			return -1
		}
		if numA > numB {
			return 1
		}
	}
	return 0
}

// versionPart возвращает числовое значение i-го компонента версии, 0 если
// компонент отсутствует или не является числом
func versionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return num
}
