// gormx 提供了 GORM ORM 框架的扩展功能,包括:
//   - 透明数据加密: 通过 SecureString 实现字段的自动加密/解密
//   - 事务管理: OnceTransactionRepo 提供基于 context 的事务传播机制
//   - Repository 基类: BaseRepo 提供通用的 Repo 操作
package gormx
