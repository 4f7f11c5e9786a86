//go:build darwin

package godialog

/*
#include <pthread.h>
#include <stdint.h>

static unsigned long long current_thread_id() {
    uint64_t tid = 0;
    pthread_threadid_np(NULL, &tid);
    return tid;
}
*/
import "C"

func currentThreadID() uint64 {
	return uint64(C.current_thread_id())
}
