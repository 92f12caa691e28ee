// Package interfaces 定義工作流與外層 UI 之間的端口。
// 客戶端核心不直接操作頁面，跳轉與提示都通過這兩個接口表達意圖，
// 由外層（終端、嵌入方）決定如何呈現。
package interfaces

// Navigator 表達頁面跳轉意圖
type Navigator interface {
	// ToLogin 未登入用戶嘗試付費操作時跳轉到登入頁
	ToLogin()

	// ToWallet 餘額不足時跳轉到錢包充值頁
	ToWallet()

	// ToExternal 整頁跳轉到外部地址（支付授權頁）
	ToExternal(url string)
}

// Notifier 表達用戶可見的提示
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}
