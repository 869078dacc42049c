package service

import "time"

// nowFunc 当前时间，测试中可替换
var nowFunc = time.Now

// today 当天零点（本地时区）
func today() time.Time {
	y, m, d := nowFunc().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
