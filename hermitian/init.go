package hermitian

import (
	_ "github.com/cwbudde/algo-ndfft/hermitian/internal/arch/generic" // register generic kernel
)
