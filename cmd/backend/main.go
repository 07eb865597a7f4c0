package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
)

// echoHandler 回显请求路径，便于验证网关转发
func echoHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("后端服务收到请求: %s", r.URL.Path)
	if userID := r.Header.Get("X-User-Id"); userID != "" {
		fmt.Fprintf(w, "Hello user %s at path: %s\n", userID, r.URL.Path)
		return
	}
	fmt.Fprintf(w, "Hello from backend at path: %s\n", r.URL.Path)
}

// healthHandler 响应网关的健康探测
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func main() {
	port := flag.String("port", ":8081", "服务监听端口")
	flag.Parse()

	http.HandleFunc("/", echoHandler)
	http.HandleFunc("/health", healthHandler)

	log.Printf("后端服务启动于 %s", *port)
	if err := http.ListenAndServe(*port, nil); err != nil {
		log.Fatalf("后端服务启动失败: %v", err)
	}
}
