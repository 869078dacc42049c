package repository

const (
	// luaSetIfVersion 版本号一致时才回填缓存
	// KEYS[1]: 好友列表 key
	// KEYS[2]: 版本号 key
	// ARGV[1]: 读库前拿到的版本号（key 不存在视为 "0"）
	// ARGV[2]: 序列化后的列表
	// ARGV[3]: 过期时间（毫秒）
	// 返回: 1 表示写入，0 表示期间发生过失效，放弃回填
	luaSetIfVersion = `
local cur = redis.call('GET', KEYS[2])
if not cur then
	cur = '0'
end
if cur ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`
)
