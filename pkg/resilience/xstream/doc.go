// Package xstream 为持续产出易错条目的数据源提供退避包装。
//
// # 设计理念
//
// 重试循环面向单次操作，而许多数据源（消息订阅、变更流、轮询器）
// 是持续的生产者：单个条目出错不应终结整个序列。xstream 把
// [xbackoff.BackOff] 的节奏应用到这类生产者上：
//
//   - 条目成功：原样传递给消费者，并重置退避策略
//   - 条目出错：错误传递给消费者后，按策略计算的延迟暂停拉取
//   - 策略耗尽：序列终结，之后永远报告结束
//
// 错误本身不会关闭数据源，关闭只由策略耗尽触发。这与重试循环的
// 耗尽语义一致，只是作用对象从单次操作换成了持久的生产者。
//
// # 状态机
//
// 包装后的流在三个状态间流转：清醒（正常拉取）、退避中（延迟
// 未到期前不触碰数据源）、已放弃（终态，幂等地报告结束）。
// 退避期间数据源不会被拉取，延迟与拉取严格串行。
//
// # 使用方式
//
//	st := xstream.New(source, xbackoff.NewExponentialBackOff())
//	for {
//	    item, err, ok := st.Next(ctx)
//	    if !ok {
//	        break
//	    }
//	    if err != nil {
//	        log.Printf("item error: %v", err)
//	        continue
//	    }
//	    handle(item)
//	}
//
// 也可通过 [Stream.Seq] 接入 for range 迭代，或用 [FromSeq] 把
// iter.Seq2 形式的序列接为数据源。
package xstream
