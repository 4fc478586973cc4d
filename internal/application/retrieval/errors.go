package retrieval

import "errors"

// ErrVectorDisabled Milvus 或 Embedder 未就绪，检索与导入均不可用
var ErrVectorDisabled = errors.New("vector retrieval is disabled")
